// Copyright 2023 The jot Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jotdev/jot/internal/errors"
)

// FetchContent fetches the content from the input url.
func FetchContent(ctx context.Context, url string) (string, error) {
	const op errors.Op = "httputil.FetchContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.E(op, errors.InvalidParam, err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.E(op, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", errors.E(op, fmt.Errorf("GET %s returned status %d", url, res.StatusCode))
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", errors.E(op, err)
	}
	return string(body), nil
}

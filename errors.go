/*
 * Copyright 2025 TickDB, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tickdb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error represents an error response from the TickDB server.
type Error struct {
	Message    string `json:"error"`
	StatusCode int    `json:"-"`
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// EncodingError reports a point that cannot be serialized to the line
// protocol: an empty measurement, a point without fields, or a field value
// of an unsupported type.
type EncodingError struct {
	Message string
}

func (e *EncodingError) Error() string {
	return "encoding: " + e.Message
}

// QueryError reports a server-side error attached to a single statement of
// a query response.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return e.Message
}

func checkStatusCode(resp *http.Response, expected int) error {
	if resp.StatusCode == expected {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	msg := string(data)
	if err != nil {
		return &Error{Message: msg, StatusCode: resp.StatusCode}
	}
	var errResp Error
	if err := json.Unmarshal(data, &errResp); err != nil || errResp.Message == "" {
		return &Error{Message: msg, StatusCode: resp.StatusCode}
	}
	errResp.StatusCode = resp.StatusCode
	return &errResp
}

// sneakyBodyClose closes the body and ignores the error.
// This is useful to close the HTTP response body when we don't care about the error.
func sneakyBodyClose(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}

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
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Query is a statement to be executed against the server.
type Query struct {
	// Command is the query text. Multiple statements may be separated by
	// semicolons; the response carries one result per statement.
	Command string
	// Database is the database to query. Falls back to the client's
	// configured database when empty.
	Database string
	// Epoch requests timestamps in the time column as integer counts of
	// the given precision unit instead of RFC3339 strings. Optional.
	Epoch Precision
	// Parameters are bound query parameters, sent JSON-encoded. Optional.
	Parameters map[string]any
	// ChunkSize asks the server to stream the result in series chunks of
	// at most this many rows. Only used by QueryChunked; zero lets the
	// server pick its default.
	ChunkSize int
}

// NewQuery creates a query on the given database. An empty database falls
// back to the client's configured one.
func NewQuery(command, database string) Query {
	return Query{
		Command:  command,
		Database: database,
	}
}

// NewQueryWithParameters creates a query with bound parameters, referenced
// in the command as $name.
func NewQueryWithParameters(command, database string, parameters map[string]any) Query {
	return Query{
		Command:    command,
		Database:   database,
		Parameters: parameters,
	}
}

// Response is the decoded body of a query response, one Result per
// statement.
type Response struct {
	Results []*Result `json:"results"`
	Err     string    `json:"error,omitempty"`
}

// Error returns the response-level error, or the first statement error, as
// an error value. It returns nil if every statement succeeded.
func (r *Response) Error() error {
	if r.Err != "" {
		return &QueryError{Message: r.Err}
	}
	for _, result := range r.Results {
		if result.Err != "" {
			return &QueryError{Message: result.Err}
		}
	}
	return nil
}

// ResultSets converts the response into one ResultSet per statement,
// preserving statement order. A statement that carries a server-side error
// yields a ResultSet whose Err method reports it; the remaining statements
// stay usable.
func (r *Response) ResultSets() []*ResultSet {
	sets := make([]*ResultSet, 0, len(r.Results))
	for _, result := range r.Results {
		sets = append(sets, newResultSet(result))
	}
	return sets
}

// Result is the raw result of a single statement.
type Result struct {
	StatementID int       `json:"statement_id"`
	Series      []*Series `json:"series,omitempty"`
	Err         string    `json:"error,omitempty"`
	Partial     bool      `json:"partial,omitempty"`
}

// queryAPI defines the interface under /query.
type queryAPI interface {
	// query executes a statement and decodes the whole response body.
	query(ctx context.Context, q Query, chunked bool) (*http.Response, error)
}

var _ queryAPI = (*Client)(nil)

// Query executes the query and decodes the full response.
//
// A nil error only means the request round-tripped; individual statements
// may still have failed. Inspect Response.Error or the Err of each
// ResultSet.
func (c *Client) Query(ctx context.Context, q Query) (*Response, error) {
	resp, err := c.query(ctx, q, false)
	if err != nil {
		return nil, err
	}
	defer sneakyBodyClose(resp.Body)
	if err := checkStatusCode(resp, http.StatusOK); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var respData Response
	if err := json.Unmarshal(data, &respData); err != nil {
		return nil, err
	}
	return &respData, nil
}

// QueryResultSets executes the query and returns one ResultSet per
// statement. Unlike Query it fails on a response-level error, but
// statement-level errors are still reported per ResultSet.
func (c *Client) QueryResultSets(ctx context.Context, q Query) ([]*ResultSet, error) {
	resp, err := c.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	if resp.Err != "" {
		return nil, &QueryError{Message: resp.Err}
	}
	return resp.ResultSets(), nil
}

// QueryChunked executes the query with chunking enabled and returns a
// streaming reader over the partial responses. The caller must close it.
func (c *Client) QueryChunked(ctx context.Context, q Query) (*ChunkedResponse, error) {
	resp, err := c.query(ctx, q, true)
	if err != nil {
		return nil, err
	}
	if err := checkStatusCode(resp, http.StatusOK); err != nil {
		sneakyBodyClose(resp.Body)
		return nil, err
	}
	return &ChunkedResponse{
		dec:  json.NewDecoder(resp.Body),
		body: resp.Body,
	}, nil
}

func (c *Client) query(ctx context.Context, q Query, chunked bool) (*http.Response, error) {
	u, err := url.Parse(c.config.Endpoint + "/query")
	if err != nil {
		return nil, err
	}

	database := q.Database
	if database == "" {
		database = c.config.Database
	}

	values := u.Query()
	values.Set("q", q.Command)
	values.Set("db", database)
	if q.Epoch != "" {
		values.Set("epoch", string(q.Epoch))
	}
	if len(q.Parameters) > 0 {
		params, err := json.Marshal(q.Parameters)
		if err != nil {
			return nil, err
		}
		values.Set("params", string(params))
	}
	if chunked {
		values.Set("chunked", "true")
		if q.ChunkSize > 0 {
			values.Set("chunk_size", strconv.Itoa(q.ChunkSize))
		}
	}
	u.RawQuery = values.Encode()

	return c.http.Get(ctx, u)
}

// ChunkedResponse decodes a chunked query body one partial Response at a
// time.
type ChunkedResponse struct {
	dec  *json.Decoder
	body io.ReadCloser
}

// Next returns the next partial response. It returns io.EOF when the
// stream is exhausted.
func (r *ChunkedResponse) Next() (*Response, error) {
	var resp Response
	if err := r.dec.Decode(&resp); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return &resp, nil
}

// Close closes the underlying response body.
func (r *ChunkedResponse) Close() error {
	return r.body.Close()
}

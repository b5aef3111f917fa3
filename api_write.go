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
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/url"
)

// writeAPI defines the interface under /write.
type writeAPI interface {
	// writeLines writes a line protocol payload with the given parameters.
	writeLines(ctx context.Context, config BatchConfig, lines string) error
}

var _ writeAPI = (*Client)(nil)

// Write encodes the batch into the line protocol and writes it to the
// server in a single request.
func (c *Client) Write(ctx context.Context, batch *Batch) error {
	lines, err := batch.Lines()
	if err != nil {
		return err
	}
	return c.writeLines(ctx, batch.config, lines)
}

// WritePoints writes points using the client's configured database and
// retention policy, with nanosecond timestamps.
func (c *Client) WritePoints(ctx context.Context, points ...*Point) error {
	batch := NewBatch(BatchConfig{})
	batch.AddPoints(points)
	return c.Write(ctx, batch)
}

func (c *Client) writeLines(ctx context.Context, config BatchConfig, lines string) error {
	u, err := url.Parse(c.config.Endpoint + "/write")
	if err != nil {
		return err
	}

	database := config.Database
	if database == "" {
		database = c.config.Database
	}
	rp := config.RetentionPolicy
	if rp == "" {
		rp = c.config.RetentionPolicy
	}

	q := u.Query()
	q.Set("db", database)
	if rp != "" {
		q.Set("rp", rp)
	}
	if config.Precision != "" && config.Precision != PrecisionNanosecond {
		q.Set("precision", string(config.Precision))
	}
	if config.Consistency != "" {
		q.Set("consistency", string(config.Consistency))
	}
	u.RawQuery = q.Encode()

	body := []byte(lines)
	contentEncoding := ""
	if c.config.GzipWrites {
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(body); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		body = buf.Bytes()
		contentEncoding = "gzip"
	}

	resp, err := c.http.Post(ctx, u, "text/plain; charset=utf-8", contentEncoding, body)
	if err != nil {
		return err
	}
	defer sneakyBodyClose(resp.Body)
	return checkStatusCode(resp, http.StatusNoContent)
}

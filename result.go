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

import "iter"

// Series is one series of a statement result: the rows sharing a
// measurement name and an exact tag set. Values carry JSON scalars only
// (float64, string, bool, nil); interpreting the time column's unit is up
// to the caller.
type Series struct {
	Name    string            `json:"name,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
	Columns []string          `json:"columns,omitempty"`
	Values  [][]any           `json:"values,omitempty"`
	Partial bool              `json:"partial,omitempty"`
}

// HasTags reports whether the series tag set is a superset of the given
// pairs.
func (s *Series) HasTags(tags map[string]string) bool {
	for k, v := range tags {
		sv, ok := s.Tags[k]
		if !ok || sv != v {
			return false
		}
	}
	return true
}

// ResultSet is the decoded result of one query statement. It is immutable
// after construction and safe for concurrent reads.
type ResultSet struct {
	series []*Series
	err    *QueryError
}

func newResultSet(result *Result) *ResultSet {
	rs := &ResultSet{series: result.Series}
	if result.Err != "" {
		rs.err = &QueryError{Message: result.Err}
	}
	return rs
}

// NewResultSet creates a result set over the given series. This is mostly
// useful in tests; result sets usually come from Response.ResultSets.
func NewResultSet(series []*Series) *ResultSet {
	return &ResultSet{series: series}
}

// Err returns the server-side error attached to this statement, if any.
func (rs *ResultSet) Err() error {
	if rs.err != nil {
		return rs.err
	}
	return nil
}

// Series returns the series of this statement in response order. A result
// set carrying a statement error has no series.
func (rs *ResultSet) Series() []*Series {
	return rs.series
}

// Points yields the rows of the matching series, each as a column→value
// mapping with the series tags merged in (column values win over tags).
//
// An empty name matches every series, including nameless "system" series
// such as the results of SHOW statements; a non-empty name matches only
// series with exactly that name. A non-nil tags mapping matches series
// whose tag set contains all the given pairs; extra tags on the series are
// ignored. Both filters combined yield their intersection.
//
// The sequence is lazy and restartable: every call returns a fresh
// sequence, there is no shared cursor, and series and rows are visited in
// response order. A result set carrying a statement error yields nothing;
// check Err.
func (rs *ResultSet) Points(name string, tags map[string]string) iter.Seq[map[string]any] {
	return func(yield func(map[string]any) bool) {
		for _, s := range rs.series {
			if name != "" && s.Name != name {
				continue
			}
			if !s.HasTags(tags) {
				continue
			}
			for _, row := range s.Values {
				if !yield(zipRow(s, row)) {
					return
				}
			}
		}
	}
}

func zipRow(s *Series, row []any) map[string]any {
	point := make(map[string]any, len(s.Columns)+len(s.Tags))
	for k, v := range s.Tags {
		point[k] = v
	}
	for i, col := range s.Columns {
		if i < len(row) {
			point[col] = row[i]
		}
	}
	return point
}

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
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Line serializes the point into a single line of the line protocol:
//
//	measurement[,tag=value...] field=value[,...] [timestamp]
//
// Tags and fields are emitted sorted by key. Tags are sorted because the
// server's index assumes it; fields only to keep the output deterministic.
// A tag with an empty value is omitted entirely: the line protocol cannot
// represent the difference between an empty and an absent tag, so omission
// is the only safe encoding.
//
// The timestamp, if set, is converted to an integer count of precision
// units. An empty precision means nanoseconds.
func (p *Point) Line(precision Precision) (string, error) {
	var b strings.Builder
	if err := p.appendLine(&b, precision); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (p *Point) appendLine(b *strings.Builder, precision Precision) error {
	if len(p.fields) == 0 {
		return &EncodingError{Message: fmt.Sprintf("point %s has no fields", p.measurement)}
	}
	unit, err := precision.Duration()
	if err != nil {
		return err
	}

	b.WriteString(escapeTag(p.measurement))

	for _, k := range sortedKeys(p.tags) {
		v := p.tags[k]
		if k == "" || v == "" {
			continue
		}
		b.WriteByte(',')
		b.WriteString(escapeTag(k))
		b.WriteByte('=')
		b.WriteString(escapeTag(v))
	}

	sep := byte(' ')
	for _, k := range sortedKeys(p.fields) {
		if k == "" {
			continue
		}
		b.WriteByte(sep)
		sep = ','
		b.WriteString(escapeTag(k))
		b.WriteByte('=')
		b.WriteString(formatFieldValue(p.fields[k]))
	}

	if !p.time.IsZero() {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(p.time.UnixNano()/int64(unit), 10))
	}
	return nil
}

// formatFieldValue renders a normalized field value in its wire form.
// Integers carry an 'i' suffix to distinguish them from floats; floats use
// the shortest representation that round-trips; strings are double-quoted.
func formatFieldValue(v any) string {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10) + "i"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return escapeStringField(v)
	default:
		// unreachable: NewPoint rejects everything else
		panic(fmt.Sprintf("unsupported field type %T", v))
	}
}

// encodeLines serializes points into newline-delimited line protocol, with
// a trailing newline.
func encodeLines(points []*Point, precision Precision) (string, error) {
	var b strings.Builder
	for _, p := range points {
		if err := p.appendLine(&b, precision); err != nil {
			return "", err
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

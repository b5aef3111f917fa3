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
	"strconv"
	"strings"
	"time"
)

// ParsePoints parses newline-delimited line protocol. Empty lines are
// skipped. Timestamps are interpreted as integer counts of precision units;
// an empty precision means nanoseconds.
func ParsePoints(data string, precision Precision) ([]*Point, error) {
	var points []*Point
	for i, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p, err := ParsePoint(line, precision)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		points = append(points, p)
	}
	return points, nil
}

// ParsePoint parses a single line of the line protocol.
func ParsePoint(line string, precision Precision) (*Point, error) {
	unit, err := precision.Duration()
	if err != nil {
		return nil, err
	}

	// Double quotes delimit strings in the field section only; in the
	// measurement and tag section they are ordinary characters.
	keySection, rest, err := splitSection(line, false)
	if err != nil {
		return nil, err
	}

	keyParts := splitUnescaped(keySection, ',', false)
	measurement := unescapeTag(keyParts[0])
	if measurement == "" {
		return nil, fmt.Errorf("missing measurement")
	}

	tags := make(map[string]string, len(keyParts)-1)
	for _, part := range keyParts[1:] {
		k, v, ok := cutUnescaped(part, '=', false)
		if !ok {
			return nil, fmt.Errorf("malformed tag %q", part)
		}
		tags[unescapeTag(k)] = unescapeTag(v)
	}

	fieldSection, rest, err := splitSection(rest, true)
	if err != nil {
		return nil, err
	}
	if fieldSection == "" {
		return nil, fmt.Errorf("missing fields")
	}

	fields := make(map[string]any)
	for _, part := range splitUnescaped(fieldSection, ',', true) {
		k, v, ok := cutUnescaped(part, '=', true)
		if !ok {
			return nil, fmt.Errorf("malformed field %q", part)
		}
		value, err := parseFieldValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", unescapeTag(k), err)
		}
		fields[unescapeTag(k)] = value
	}

	var ts time.Time
	if rest != "" {
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed timestamp %q", rest)
		}
		ts = time.Unix(0, n*int64(unit)).UTC()
	}

	return NewPoint(measurement, tags, fields, ts)
}

func parseFieldValue(s string) (any, error) {
	if s == "" {
		return nil, fmt.Errorf("empty value")
	}
	if s[0] == '"' {
		if len(s) < 2 || s[len(s)-1] != '"' {
			return nil, fmt.Errorf("unterminated string %q", s)
		}
		return unquoteStringField(s[1 : len(s)-1]), nil
	}
	switch s {
	case "t", "T", "true", "True", "TRUE":
		return true, nil
	case "f", "F", "false", "False", "FALSE":
		return false, nil
	}
	if strings.HasSuffix(s, "i") {
		n, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed integer %q", s)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed value %q", s)
	}
	return f, nil
}

func unquoteStringField(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitSection cuts the line at the first unescaped space, returning the
// section and the remainder.
func splitSection(line string, respectQuotes bool) (string, string, error) {
	i, err := indexUnescaped(line, ' ', respectQuotes)
	if err != nil {
		return "", "", err
	}
	if i < 0 {
		return line, "", nil
	}
	return line[:i], line[i+1:], nil
}

func splitUnescaped(s string, sep byte, respectQuotes bool) []string {
	var parts []string
	for {
		i, _ := indexUnescaped(s, sep, respectQuotes)
		if i < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:i])
		s = s[i+1:]
	}
}

func cutUnescaped(s string, sep byte, respectQuotes bool) (string, string, bool) {
	i, _ := indexUnescaped(s, sep, respectQuotes)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// indexUnescaped finds the first occurrence of sep that is not
// backslash-escaped and, when respectQuotes is set, not inside a
// double-quoted string.
func indexUnescaped(s string, sep byte, respectQuotes bool) (int, error) {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			if respectQuotes {
				quoted = !quoted
			}
		case sep:
			if !quoted {
				return i, nil
			}
		}
	}
	if quoted {
		return -1, fmt.Errorf("unterminated string in %q", s)
	}
	return -1, nil
}

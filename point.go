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
	"math"
	"time"
)

// Precision is the unit of a point timestamp on the wire.
type Precision string

const (
	PrecisionNanosecond  Precision = "ns"
	PrecisionMicrosecond Precision = "us"
	PrecisionMillisecond Precision = "ms"
	PrecisionSecond      Precision = "s"
	PrecisionMinute      Precision = "m"
	PrecisionHour        Precision = "h"
)

// Duration returns the length of one timestamp unit.
func (p Precision) Duration() (time.Duration, error) {
	switch p {
	case PrecisionNanosecond, "":
		return time.Nanosecond, nil
	case PrecisionMicrosecond:
		return time.Microsecond, nil
	case PrecisionMillisecond:
		return time.Millisecond, nil
	case PrecisionSecond:
		return time.Second, nil
	case PrecisionMinute:
		return time.Minute, nil
	case PrecisionHour:
		return time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid precision: %q", string(p))
	}
}

// Point represents a single measured event: a measurement name, a set of
// tags, a set of typed fields, and an optional timestamp.
//
// A Point is immutable once constructed and safe for concurrent reads.
type Point struct {
	measurement string
	tags        map[string]string
	fields      map[string]any
	time        time.Time
}

// NewPoint creates a point. The measurement must be non-empty and at least
// one field is required. Field values must be of an integer kind, a float
// kind, bool, or string; they are normalized to int64, float64, bool, and
// string respectively. A zero t leaves the timestamp unset so the server
// assigns the ingestion time.
//
// A malformed point is reported as an *EncodingError.
func NewPoint(measurement string, tags map[string]string, fields map[string]any, t time.Time) (*Point, error) {
	if measurement == "" {
		return nil, &EncodingError{Message: "point measurement is empty"}
	}
	if len(fields) == 0 {
		return nil, &EncodingError{Message: fmt.Sprintf("point %s has no fields", measurement)}
	}

	normalized := make(map[string]any, len(fields))
	for k, v := range fields {
		nv, err := normalizeFieldValue(v)
		if err != nil {
			return nil, &EncodingError{
				Message: fmt.Sprintf("point %s, field %s: %s", measurement, k, err),
			}
		}
		normalized[k] = nv
	}

	var copied map[string]string
	if len(tags) > 0 {
		copied = make(map[string]string, len(tags))
		for k, v := range tags {
			copied[k] = v
		}
	}

	return &Point{
		measurement: measurement,
		tags:        copied,
		fields:      normalized,
		time:        t,
	}, nil
}

// MustNewPoint is like NewPoint but panics on a malformed point. It is
// intended for statically known points, typically in tests and examples.
func MustNewPoint(measurement string, tags map[string]string, fields map[string]any, t time.Time) *Point {
	p, err := NewPoint(measurement, tags, fields, t)
	if err != nil {
		panic(err)
	}
	return p
}

func normalizeFieldValue(v any) (any, error) {
	switch v := v.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, fmt.Errorf("value %d out of range", v)
		}
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("value %d out of range", v)
		}
		return int64(v), nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case bool:
		return v, nil
	case string:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported field type %T", v)
	}
}

// Measurement returns the measurement name.
func (p *Point) Measurement() string {
	return p.measurement
}

// Tags returns a copy of the point tags.
func (p *Point) Tags() map[string]string {
	tags := make(map[string]string, len(p.tags))
	for k, v := range p.tags {
		tags[k] = v
	}
	return tags
}

// Fields returns a copy of the point fields with normalized value types.
func (p *Point) Fields() map[string]any {
	fields := make(map[string]any, len(p.fields))
	for k, v := range p.fields {
		fields[k] = v
	}
	return fields
}

// Time returns the point timestamp. The zero time means the timestamp is
// unset.
func (p *Point) Time() time.Time {
	return p.time
}

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
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// FrameOptions controls the tabular view of a result set.
type FrameOptions struct {
	// IncludeTags adds one constant string column per series tag. When
	// unset, tags are carried as schema metadata instead.
	IncludeTags bool
	// Allocator is the Arrow allocator, defaults to the Go allocator.
	Allocator memory.Allocator
}

// FrameWriteOptions controls how a record converts back into points.
type FrameWriteOptions struct {
	// Measurement is the measurement name for every converted point.
	Measurement string
	// TagColumns names string columns that become tags instead of fields.
	TagColumns []string
	// TimeColumn names the timestamp column, defaults to "time".
	TimeColumn string
}

// Frames reshapes the result set into one Arrow record per series. Column
// types are inferred from the JSON scalars: booleans, numbers (float64),
// and strings; a "time" column holding RFC3339 strings becomes a
// nanosecond timestamp column. Numeric time columns (epoch queries) keep
// their caller-chosen unit and stay numeric. Nulls are preserved.
func (rs *ResultSet) Frames(opts FrameOptions) ([]arrow.Record, error) {
	if err := rs.Err(); err != nil {
		return nil, err
	}
	alloc := opts.Allocator
	if alloc == nil {
		alloc = memory.NewGoAllocator()
	}

	records := make([]arrow.Record, 0, len(rs.series))
	for _, s := range rs.series {
		rec, err := seriesFrame(s, opts.IncludeTags, alloc)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Name, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func seriesFrame(s *Series, includeTags bool, alloc memory.Allocator) (arrow.Record, error) {
	fields := make([]arrow.Field, 0, len(s.Columns)+len(s.Tags))
	for i, col := range s.Columns {
		typ, err := inferColumnType(s, i)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		fields = append(fields, arrow.Field{Name: col, Type: typ, Nullable: true})
	}

	tagKeys := sortedKeys(s.Tags)
	if includeTags {
		for _, k := range tagKeys {
			fields = append(fields, arrow.Field{Name: k, Type: arrow.BinaryTypes.String, Nullable: true})
		}
	}

	metaKeys := []string{"name"}
	metaValues := []string{s.Name}
	if !includeTags {
		for _, k := range tagKeys {
			metaKeys = append(metaKeys, "tag."+k)
			metaValues = append(metaValues, s.Tags[k])
		}
	}
	metadata := arrow.NewMetadata(metaKeys, metaValues)
	schema := arrow.NewSchema(fields, &metadata)

	b := array.NewRecordBuilder(alloc, schema)
	defer b.Release()

	for _, row := range s.Values {
		for i := range s.Columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			if err := appendCell(b.Field(i), v); err != nil {
				return nil, fmt.Errorf("column %s: %w", s.Columns[i], err)
			}
		}
		for j, k := range tagKeys {
			if !includeTags {
				break
			}
			b.Field(len(s.Columns) + j).(*array.StringBuilder).Append(s.Tags[k])
		}
	}
	return b.NewRecord(), nil
}

// inferColumnType picks the Arrow type from the first non-nil value of the
// column. An all-null column decodes as a null column.
func inferColumnType(s *Series, col int) (arrow.DataType, error) {
	for _, row := range s.Values {
		if col >= len(row) || row[col] == nil {
			continue
		}
		switch v := row[col].(type) {
		case bool:
			return arrow.FixedWidthTypes.Boolean, nil
		case float64:
			return arrow.PrimitiveTypes.Float64, nil
		case string:
			if s.Columns[col] == "time" {
				return arrow.FixedWidthTypes.Timestamp_ns, nil
			}
			return arrow.BinaryTypes.String, nil
		default:
			return nil, fmt.Errorf("unsupported scalar %T", v)
		}
	}
	return arrow.Null, nil
}

func appendCell(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch b := b.(type) {
	case *array.BooleanBuilder:
		bv, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		b.Append(bv)
	case *array.Float64Builder:
		fv, ok := v.(float64)
		if !ok {
			return fmt.Errorf("expected number, got %T", v)
		}
		b.Append(fv)
	case *array.StringBuilder:
		sv, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		b.Append(sv)
	case *array.TimestampBuilder:
		sv, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected timestamp string, got %T", v)
		}
		t, err := time.Parse(time.RFC3339Nano, sv)
		if err != nil {
			return err
		}
		b.Append(arrow.Timestamp(t.UnixNano()))
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}

// FramePoints converts an Arrow record into points for writing, the
// reverse of Frames. String columns named in TagColumns become tags, the
// time column becomes the point timestamp, every other column becomes a
// field. Null cells are omitted from the point.
func FramePoints(rec arrow.Record, opts FrameWriteOptions) ([]*Point, error) {
	if opts.Measurement == "" {
		return nil, &EncodingError{Message: "frame measurement is empty"}
	}
	timeColumn := opts.TimeColumn
	if timeColumn == "" {
		timeColumn = "time"
	}
	tagColumns := make(map[string]bool, len(opts.TagColumns))
	for _, c := range opts.TagColumns {
		tagColumns[c] = true
	}

	schema := rec.Schema()
	points := make([]*Point, 0, rec.NumRows())
	for row := 0; row < int(rec.NumRows()); row++ {
		tags := make(map[string]string)
		fields := make(map[string]any)
		var ts time.Time

		for col := 0; col < int(rec.NumCols()); col++ {
			name := schema.Field(col).Name
			column := rec.Column(col)
			if column.IsNull(row) {
				continue
			}

			if name == timeColumn {
				t, err := cellTime(column, row)
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", row, err)
				}
				ts = t
				continue
			}

			v, err := cellValue(column, row)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", row, name, err)
			}
			if tagColumns[name] {
				sv, ok := v.(string)
				if !ok {
					return nil, fmt.Errorf("row %d: tag column %s is not a string column", row, name)
				}
				tags[name] = sv
				continue
			}
			fields[name] = v
		}

		p, err := NewPoint(opts.Measurement, tags, fields, ts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		points = append(points, p)
	}
	return points, nil
}

func cellValue(column arrow.Array, row int) (any, error) {
	switch column := column.(type) {
	case *array.Boolean:
		return column.Value(row), nil
	case *array.Int64:
		return column.Value(row), nil
	case *array.Float64:
		return column.Value(row), nil
	case *array.String:
		return column.Value(row), nil
	case *array.Timestamp:
		t, err := cellTime(column, row)
		if err != nil {
			return nil, err
		}
		return t.Format(time.RFC3339Nano), nil
	default:
		return nil, fmt.Errorf("unsupported column type %s", column.DataType())
	}
}

func cellTime(column arrow.Array, row int) (time.Time, error) {
	switch column := column.(type) {
	case *array.Timestamp:
		typ := column.DataType().(*arrow.TimestampType)
		return column.Value(row).ToTime(typ.Unit).UTC(), nil
	case *array.Int64:
		return time.Unix(0, column.Value(row)).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time column type %s", column.DataType())
	}
}

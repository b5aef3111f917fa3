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

package tickdb_test

import (
	"testing"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/require"
	tickdb "github.com/tickdb/tickdb-sdk/go"
)

func cpuSeries() *tickdb.Series {
	return &tickdb.Series{
		Name:    "cpu",
		Tags:    map[string]string{"host": "A", "region": "us-west"},
		Columns: []string{"time", "value", "mode", "idle"},
		Values: [][]any{
			{"2025-03-01T00:00:00Z", 0.64, "user", true},
			{"2025-03-01T00:00:10Z", 0.72, nil, false},
		},
	}
}

func TestFrames(t *testing.T) {
	rs := tickdb.NewResultSet([]*tickdb.Series{cpuSeries()})

	records, err := rs.Frames(tickdb.FrameOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	defer rec.Release()

	schema := rec.Schema()
	require.Equal(t, int64(2), rec.NumRows())
	require.Equal(t, int64(4), rec.NumCols())
	require.True(t, arrow.TypeEqual(arrow.FixedWidthTypes.Timestamp_ns, schema.Field(0).Type))
	require.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Float64, schema.Field(1).Type))
	require.True(t, arrow.TypeEqual(arrow.BinaryTypes.String, schema.Field(2).Type))
	require.True(t, arrow.TypeEqual(arrow.FixedWidthTypes.Boolean, schema.Field(3).Type))

	name, ok := schema.Metadata().GetValue("name")
	require.True(t, ok)
	require.Equal(t, "cpu", name)
	host, ok := schema.Metadata().GetValue("tag.host")
	require.True(t, ok)
	require.Equal(t, "A", host)

	times := rec.Column(0).(*array.Timestamp)
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, arrow.Timestamp(want.UnixNano()), times.Value(0))

	values := rec.Column(1).(*array.Float64)
	require.Equal(t, 0.64, values.Value(0))
	require.Equal(t, 0.72, values.Value(1))

	modes := rec.Column(2).(*array.String)
	require.Equal(t, "user", modes.Value(0))
	require.True(t, modes.IsNull(1))
}

func TestFramesIncludeTags(t *testing.T) {
	rs := tickdb.NewResultSet([]*tickdb.Series{cpuSeries()})

	records, err := rs.Frames(tickdb.FrameOptions{IncludeTags: true})
	require.NoError(t, err)
	rec := records[0]
	defer rec.Release()

	schema := rec.Schema()
	require.Equal(t, int64(6), rec.NumCols())
	require.Equal(t, "host", schema.Field(4).Name)
	require.Equal(t, "region", schema.Field(5).Name)

	hosts := rec.Column(4).(*array.String)
	require.Equal(t, "A", hosts.Value(0))
	require.Equal(t, "A", hosts.Value(1))

	_, ok := schema.Metadata().GetValue("tag.host")
	require.False(t, ok)
}

func TestFramesAllNullColumn(t *testing.T) {
	rs := tickdb.NewResultSet([]*tickdb.Series{{
		Name:    "m",
		Columns: []string{"a"},
		Values:  [][]any{{nil}, {nil}},
	}})

	records, err := rs.Frames(tickdb.FrameOptions{})
	require.NoError(t, err)
	rec := records[0]
	defer rec.Release()

	require.True(t, arrow.TypeEqual(arrow.Null, rec.Schema().Field(0).Type))
	require.Equal(t, int64(2), rec.NumRows())
}

func TestFramesMixedColumnTypes(t *testing.T) {
	rs := tickdb.NewResultSet([]*tickdb.Series{{
		Name:    "m",
		Columns: []string{"a"},
		Values:  [][]any{{1.0}, {"oops"}},
	}})

	_, err := rs.Frames(tickdb.FrameOptions{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "column a")
}

func TestFramesStatementError(t *testing.T) {
	resp := decodeResponse(t, `{"results":[{"error":"measurement not found"}]}`)

	_, err := resp.ResultSets()[0].Frames(tickdb.FrameOptions{})
	var queryErr *tickdb.QueryError
	require.ErrorAs(t, err, &queryErr)
}

func TestFramePoints(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "time", Type: arrow.FixedWidthTypes.Timestamp_ns},
		{Name: "host", Type: arrow.BinaryTypes.String},
		{Name: "value", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "cores", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	b.Field(0).(*array.TimestampBuilder).Append(arrow.Timestamp(ts.UnixNano()))
	b.Field(1).(*array.StringBuilder).Append("server01")
	b.Field(2).(*array.Float64Builder).Append(0.64)
	b.Field(3).(*array.Int64Builder).Append(8)

	b.Field(0).(*array.TimestampBuilder).Append(arrow.Timestamp(ts.Add(10 * time.Second).UnixNano()))
	b.Field(1).(*array.StringBuilder).Append("server02")
	b.Field(2).(*array.Float64Builder).AppendNull()
	b.Field(3).(*array.Int64Builder).Append(4)

	rec := b.NewRecord()
	defer rec.Release()

	points, err := tickdb.FramePoints(rec, tickdb.FrameWriteOptions{
		Measurement: "cpu",
		TagColumns:  []string{"host"},
	})
	require.NoError(t, err)
	require.Len(t, points, 2)

	require.Equal(t, map[string]string{"host": "server01"}, points[0].Tags())
	require.Equal(t, map[string]any{"value": 0.64, "cores": int64(8)}, points[0].Fields())
	require.True(t, ts.Equal(points[0].Time()))

	// the null cell is omitted from the second point
	require.Equal(t, map[string]any{"cores": int64(4)}, points[1].Fields())

	line, err := points[0].Line(tickdb.PrecisionSecond)
	require.NoError(t, err)
	require.Equal(t, "cpu,host=server01 cores=8i,value=0.64 1740787200", line)
}

func TestFramePointsRequiresMeasurement(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "value", Type: arrow.PrimitiveTypes.Float64},
	}, nil)
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	b.Field(0).(*array.Float64Builder).Append(1)
	rec := b.NewRecord()
	defer rec.Release()

	_, err := tickdb.FramePoints(rec, tickdb.FrameWriteOptions{})
	var encErr *tickdb.EncodingError
	require.ErrorAs(t, err, &encErr)
}

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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	tickdb "github.com/tickdb/tickdb-sdk/go"
)

const cpuResponse = `{
	"results": [
		{
			"statement_id": 0,
			"series": [
				{
					"name": "cpu",
					"tags": {"host": "A", "region": "us-west"},
					"columns": ["time", "value"],
					"values": [
						["2025-03-01T00:00:00Z", 0.64],
						["2025-03-01T00:00:10Z", 0.72]
					]
				},
				{
					"name": "cpu",
					"tags": {"host": "B", "region": "us-west"},
					"columns": ["time", "value"],
					"values": [
						["2025-03-01T00:00:00Z", 0.11]
					]
				},
				{
					"name": "mem",
					"tags": {"host": "A"},
					"columns": ["time", "free"],
					"values": [
						["2025-03-01T00:00:00Z", 2048]
					]
				}
			]
		}
	]
}`

func decodeResponse(t *testing.T, body string) *tickdb.Response {
	t.Helper()
	var resp tickdb.Response
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return &resp
}

func collect(points func(func(map[string]any) bool)) []map[string]any {
	var out []map[string]any
	for p := range points {
		out = append(out, p)
	}
	return out
}

func TestPointsNoFilter(t *testing.T) {
	rs := decodeResponse(t, cpuResponse).ResultSets()[0]

	points := collect(rs.Points("", nil))
	require.Len(t, points, 4)
	require.Equal(t, map[string]any{
		"time":   "2025-03-01T00:00:00Z",
		"value":  0.64,
		"host":   "A",
		"region": "us-west",
	}, points[0])
	require.Equal(t, 2048.0, points[3]["free"])
}

func TestPointsFilterBySeriesName(t *testing.T) {
	rs := decodeResponse(t, cpuResponse).ResultSets()[0]

	points := collect(rs.Points("cpu", nil))
	require.Len(t, points, 3)
	for _, p := range points {
		require.Contains(t, p, "value")
	}

	require.Empty(t, collect(rs.Points("disk", nil)))
}

func TestPointsFilterByTags(t *testing.T) {
	rs := decodeResponse(t, cpuResponse).ResultSets()[0]

	points := collect(rs.Points("", map[string]string{"host": "A"}))
	require.Len(t, points, 3)

	// superset match: extra series tags are ignored
	points = collect(rs.Points("", map[string]string{"region": "us-west"}))
	require.Len(t, points, 3)

	require.Empty(t, collect(rs.Points("", map[string]string{"host": "A", "rack": "r1"})))
}

func TestPointsFilterByNameAndTags(t *testing.T) {
	rs := decodeResponse(t, cpuResponse).ResultSets()[0]

	points := collect(rs.Points("cpu", map[string]string{"host": "A"}))
	require.Len(t, points, 2)
	require.Equal(t, 0.64, points[0]["value"])
	require.Equal(t, 0.72, points[1]["value"])
}

func TestPointsIsRestartable(t *testing.T) {
	rs := decodeResponse(t, cpuResponse).ResultSets()[0]

	first := collect(rs.Points("", nil))
	second := collect(rs.Points("", nil))
	require.Equal(t, first, second)

	// early break must not disturb later iterations
	for range rs.Points("", nil) {
		break
	}
	require.Equal(t, first, collect(rs.Points("", nil)))
}

func TestPointsSystemSeries(t *testing.T) {
	rs := tickdb.NewResultSet([]*tickdb.Series{{
		Columns: []string{"name"},
		Values:  [][]any{{"db0"}, {"db1"}},
	}})

	points := collect(rs.Points("", nil))
	require.Len(t, points, 2)
	require.Equal(t, "db0", points[0]["name"])

	// a name filter excludes nameless series
	require.Empty(t, collect(rs.Points("databases", nil)))
}

func TestStatementErrorSurfaced(t *testing.T) {
	resp := decodeResponse(t, `{"results":[{"error":"measurement not found"}]}`)

	err := resp.Error()
	var queryErr *tickdb.QueryError
	require.ErrorAs(t, err, &queryErr)
	require.Equal(t, "measurement not found", queryErr.Message)

	rs := resp.ResultSets()[0]
	require.ErrorAs(t, rs.Err(), &queryErr)
	require.Empty(t, collect(rs.Points("", nil)))
}

func TestPartialStatementFailure(t *testing.T) {
	resp := decodeResponse(t, `{
		"results": [
			{"statement_id": 0, "error": "bad statement"},
			{"statement_id": 1, "series": [{"name": "cpu", "columns": ["time", "value"], "values": [[1, 2]]}]}
		]
	}`)

	sets := resp.ResultSets()
	require.Len(t, sets, 2)
	require.Error(t, sets[0].Err())
	require.NoError(t, sets[1].Err())
	require.Len(t, collect(sets[1].Points("cpu", nil)), 1)
}

func TestEmptyResponse(t *testing.T) {
	resp := decodeResponse(t, `{"results":[]}`)
	require.NoError(t, resp.Error())
	require.Empty(t, resp.ResultSets())
}

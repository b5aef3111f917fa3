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

/*
Package tickdb provides a lightweight and easy-to-use client for interacting with a TickDB service.

# Client

Use NewClient to create a client struct. This is the major entrance to construct structs for interacting with TickDB:

	client := tickdb.NewClient(&tickdb.Config{
		Endpoint: "http://<tickdb-host>:<tickdb-port:-8086>",
		Database: "metrics",
	})

# Write Data

Build points and write them in batches of line protocol:

	p, err := tickdb.NewPoint("cpu",
		map[string]string{"host": "server01"},
		map[string]any{"value": 0.64},
		time.Now())
	if err != nil {
		return err
	}

	batch := tickdb.NewBatch(tickdb.BatchConfig{Precision: tickdb.PrecisionSecond})
	batch.AddPoint(p)
	if err := client.Write(ctx, batch); err != nil {
		return err
	}

For continuous producers, PointCable batches in the background:

	cable := client.PointCable(tickdb.BatchConfig{})
	cable.Start(ctx)
	defer cable.Close()

	done, errCh := cable.Send(p)

# Query Data

Queries return one result set per statement; each result set yields its
rows as lazy point streams, optionally filtered by series name and tags:

	sets, err := client.QueryResultSets(ctx, tickdb.NewQuery(`SELECT * FROM "cpu"`, "metrics"))
	if err != nil {
		return err
	}
	for point := range sets[0].Points("cpu", map[string]string{"host": "server01"}) {
		fmt.Println(point["time"], point["value"])
	}

# Tabular View

Result sets reshape into Arrow records, one per series, via ResultSet.Frames.
*/
package tickdb

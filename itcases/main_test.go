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

package itcases

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/lucasepe/codename"
	"github.com/stretchr/testify/require"
	tickdb "github.com/tickdb/tickdb-sdk/go"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func NewClient(t testing.TB) *tickdb.Client {
	endpoint := os.Getenv("TICKDB_ENDPOINT")

	if endpoint == "" {
		t.Skip("TICKDB_ENDPOINT not set")
		return nil // unreachable
	}

	return tickdb.NewClient(&tickdb.Config{
		Endpoint: endpoint,
	})
}

func RandomName(t testing.TB) string {
	rng, err := codename.DefaultRNG()
	require.NoError(t, err)
	return strings.ReplaceAll(codename.Generate(rng, 10), "-", "_")
}

// NewDatabase creates a scratch database and registers its teardown.
func NewDatabase(t *testing.T, c *tickdb.Client) *tickdb.Database {
	ctx := context.Background()
	db := c.Database(RandomName(t))
	require.NoError(t, db.Create(ctx))
	t.Cleanup(func() {
		require.NoError(t, db.Drop(context.Background()))
	})
	return db
}

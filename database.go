package tickdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Database is a fluent handle on a named database.
type Database struct {
	c *Client

	// Name is the name of the database.
	Name string
}

// Database creates a handle on the given database. No request is made
// until one of the handle's methods is called.
func (c *Client) Database(name string) *Database {
	return &Database{
		c:    c,
		Name: name,
	}
}

// Create creates the database. Creating a database that already exists is
// not an error.
func (d *Database) Create(ctx context.Context) error {
	return d.c.exec(ctx, fmt.Sprintf(`CREATE DATABASE %s`, quoteIdent(d.Name)))
}

// Drop drops the database and all of its data.
func (d *Database) Drop(ctx context.Context) error {
	return d.c.exec(ctx, fmt.Sprintf(`DROP DATABASE %s`, quoteIdent(d.Name)))
}

// Measurements lists the measurement names of the database.
func (d *Database) Measurements(ctx context.Context) ([]string, error) {
	return d.c.stringColumn(ctx, Query{
		Command:  `SHOW MEASUREMENTS`,
		Database: d.Name,
	}, "name")
}

// Series lists the series keys of the database.
func (d *Database) Series(ctx context.Context) ([]string, error) {
	return d.c.stringColumn(ctx, Query{
		Command:  `SHOW SERIES`,
		Database: d.Name,
	}, "key")
}

// DropSeries deletes all points of the series matching the measurement
// and tag pairs. An empty measurement matches every measurement.
func (d *Database) DropSeries(ctx context.Context, measurement string, tags map[string]string) error {
	var b strings.Builder
	b.WriteString(`DROP SERIES`)
	if measurement != "" {
		b.WriteString(` FROM `)
		b.WriteString(quoteIdent(measurement))
	}
	if len(tags) > 0 {
		keys := make([]string, 0, len(tags))
		for k := range tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(` WHERE `)
		for i, k := range keys {
			if i > 0 {
				b.WriteString(` AND `)
			}
			b.WriteString(quoteIdent(k))
			b.WriteString(` = `)
			b.WriteString(quoteLiteral(tags[k]))
		}
	}
	return d.c.execOn(ctx, b.String(), d.Name)
}

// Databases lists the names of the databases on the server.
func (c *Client) Databases(ctx context.Context) ([]string, error) {
	return c.stringColumn(ctx, Query{Command: `SHOW DATABASES`}, "name")
}

// exec runs a management statement and checks it for a statement error.
func (c *Client) exec(ctx context.Context, command string) error {
	return c.execOn(ctx, command, "")
}

func (c *Client) execOn(ctx context.Context, command, database string) error {
	resp, err := c.Query(ctx, Query{Command: command, Database: database})
	if err != nil {
		return err
	}
	return resp.Error()
}

// stringColumn runs a query and collects the named column of every
// returned point as strings.
func (c *Client) stringColumn(ctx context.Context, q Query, column string) ([]string, error) {
	sets, err := c.QueryResultSets(ctx, q)
	if err != nil {
		return nil, err
	}

	var values []string
	for _, rs := range sets {
		if err := rs.Err(); err != nil {
			return nil, err
		}
		for point := range rs.Points("", nil) {
			v, ok := point[column].(string)
			if !ok {
				return nil, fmt.Errorf("column %s: expected string, got %T", column, point[column])
			}
			values = append(values, v)
		}
	}
	return values, nil
}

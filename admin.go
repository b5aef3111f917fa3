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
	"context"
	"fmt"
	"strings"
)

// RetentionPolicy describes how long a database keeps its points.
type RetentionPolicy struct {
	// Name is the policy name.
	Name string
	// Duration is how long points are kept, e.g. "30d" or "INF".
	Duration string
	// Replication is the number of replicas kept in a cluster.
	Replication int
	// ShardGroupDuration is the time range covered by one shard group.
	// Optional; the server derives it from Duration when empty.
	ShardGroupDuration string
	// Default marks the policy as the database default.
	Default bool
}

// CreateRetentionPolicy creates a retention policy on the database.
func (d *Database) CreateRetentionPolicy(ctx context.Context, rp RetentionPolicy) error {
	return d.c.exec(ctx, retentionPolicyStatement("CREATE", d.Name, rp))
}

// AlterRetentionPolicy modifies an existing retention policy.
func (d *Database) AlterRetentionPolicy(ctx context.Context, rp RetentionPolicy) error {
	return d.c.exec(ctx, retentionPolicyStatement("ALTER", d.Name, rp))
}

// DropRetentionPolicy drops the named retention policy and its data.
func (d *Database) DropRetentionPolicy(ctx context.Context, name string) error {
	return d.c.exec(ctx, fmt.Sprintf(`DROP RETENTION POLICY %s ON %s`,
		quoteIdent(name), quoteIdent(d.Name)))
}

// RetentionPolicies lists the retention policies of the database.
func (d *Database) RetentionPolicies(ctx context.Context) ([]RetentionPolicy, error) {
	sets, err := d.c.QueryResultSets(ctx, Query{
		Command: fmt.Sprintf(`SHOW RETENTION POLICIES ON %s`, quoteIdent(d.Name)),
	})
	if err != nil {
		return nil, err
	}

	var policies []RetentionPolicy
	for _, rs := range sets {
		if err := rs.Err(); err != nil {
			return nil, err
		}
		for point := range rs.Points("", nil) {
			rp := RetentionPolicy{}
			rp.Name, _ = point["name"].(string)
			rp.Duration, _ = point["duration"].(string)
			rp.ShardGroupDuration, _ = point["shardGroupDuration"].(string)
			if n, ok := point["replicaN"].(float64); ok {
				rp.Replication = int(n)
			}
			rp.Default, _ = point["default"].(bool)
			policies = append(policies, rp)
		}
	}
	return policies, nil
}

func retentionPolicyStatement(verb, database string, rp RetentionPolicy) string {
	var b strings.Builder
	fmt.Fprintf(&b, `%s RETENTION POLICY %s ON %s DURATION %s REPLICATION %d`,
		verb, quoteIdent(rp.Name), quoteIdent(database), rp.Duration, rp.Replication)
	if rp.ShardGroupDuration != "" {
		fmt.Fprintf(&b, ` SHARD DURATION %s`, rp.ShardGroupDuration)
	}
	if rp.Default {
		b.WriteString(` DEFAULT`)
	}
	return b.String()
}

// Privilege is a database-level permission.
type Privilege string

const (
	PrivilegeRead  Privilege = "READ"
	PrivilegeWrite Privilege = "WRITE"
	PrivilegeAll   Privilege = "ALL"
)

// User is one entry of the server's user list.
type User struct {
	Name  string
	Admin bool
}

// Users lists the users known to the server.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	sets, err := c.QueryResultSets(ctx, Query{Command: `SHOW USERS`})
	if err != nil {
		return nil, err
	}

	var users []User
	for _, rs := range sets {
		if err := rs.Err(); err != nil {
			return nil, err
		}
		for point := range rs.Points("", nil) {
			u := User{}
			u.Name, _ = point["user"].(string)
			u.Admin, _ = point["admin"].(bool)
			users = append(users, u)
		}
	}
	return users, nil
}

// CreateUser creates a user, optionally with admin privileges.
func (c *Client) CreateUser(ctx context.Context, name, password string, admin bool) error {
	stmt := fmt.Sprintf(`CREATE USER %s WITH PASSWORD %s`,
		quoteIdent(name), quoteLiteral(password))
	if admin {
		stmt += ` WITH ALL PRIVILEGES`
	}
	return c.exec(ctx, stmt)
}

// DropUser removes a user.
func (c *Client) DropUser(ctx context.Context, name string) error {
	return c.exec(ctx, fmt.Sprintf(`DROP USER %s`, quoteIdent(name)))
}

// SetUserPassword changes a user's password.
func (c *Client) SetUserPassword(ctx context.Context, name, password string) error {
	return c.exec(ctx, fmt.Sprintf(`SET PASSWORD FOR %s = %s`,
		quoteIdent(name), quoteLiteral(password)))
}

// GrantPrivilege grants a database privilege to a user.
func (c *Client) GrantPrivilege(ctx context.Context, p Privilege, database, user string) error {
	return c.exec(ctx, fmt.Sprintf(`GRANT %s ON %s TO %s`,
		p, quoteIdent(database), quoteIdent(user)))
}

// RevokePrivilege revokes a database privilege from a user.
func (c *Client) RevokePrivilege(ctx context.Context, p Privilege, database, user string) error {
	return c.exec(ctx, fmt.Sprintf(`REVOKE %s ON %s FROM %s`,
		p, quoteIdent(database), quoteIdent(user)))
}

// GrantAdmin grants cluster admin privileges to a user.
func (c *Client) GrantAdmin(ctx context.Context, user string) error {
	return c.exec(ctx, fmt.Sprintf(`GRANT ALL PRIVILEGES TO %s`, quoteIdent(user)))
}

// RevokeAdmin revokes cluster admin privileges from a user.
func (c *Client) RevokeAdmin(ctx context.Context, user string) error {
	return c.exec(ctx, fmt.Sprintf(`REVOKE ALL PRIVILEGES FROM %s`, quoteIdent(user)))
}

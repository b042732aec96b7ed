// Package graphql carries the read-only inventory schema served at /graphql.
package graphql

import (
	_ "embed"
)

//go:embed schema.graphqls
var schema string

// Schema returns the SDL parsed by graphqlserver.
func Schema() string {
	return schema
}

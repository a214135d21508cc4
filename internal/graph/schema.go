// Package graph exposes the journal use cases as a GraphQL schema.
//
// The schema is written in SDL (schema.graphql, embedded at build time) and
// bound to Go resolvers by graph-gophers/graphql-go. Each root field calls
// exactly one service method, passing the caller's identity taken from the
// request context.
package graph

import (
	_ "embed"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	gqlotel "github.com/graph-gophers/graphql-go/trace/otel"
)

//go:embed schema.graphql
var schemaSDL string

// maxQueryDepth bounds nesting. The deepest query clients send is the
// standard introspection query, whose TypeRef fragment nests ofType seven
// levels below __schema { types { fields { type } } }.
const maxQueryDepth = 20

// NewSchema parses the SDL and binds it to r. Every operation and resolved
// field is traced through the global OpenTelemetry tracer provider, which
// is a no-op unless telemetry.Setup installed an exporter.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	schema, err := graphql.ParseSchema(schemaSDL, r,
		graphql.MaxDepth(maxQueryDepth),
		graphql.Tracer(gqlotel.DefaultTracer()),
	)
	if err != nil {
		return nil, fmt.Errorf("graph: parsing schema: %w", err)
	}
	return schema, nil
}

// Package api exposes the notebook service as a GraphQL schema.
package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/graphql-go/graphql"

	"github.com/mesh-intelligence/notebook/pkg/notebook"
)

// Request is one GraphQL request as sent over HTTP.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
}

// API executes GraphQL requests against a Service.
type API struct {
	svc    *notebook.Service
	schema graphql.Schema
	policy Policy
	logger *slog.Logger
}

// Option configures an API.
type Option func(*API)

// WithPolicy sets the mutation error policy. The default is PolicyStrict.
func WithPolicy(p Policy) Option {
	return func(a *API) {
		a.policy = p
	}
}

// WithLogger sets the logger. The default is the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New builds the schema over svc.
func New(svc *notebook.Service, opts ...Option) (*API, error) {
	a := &API{
		svc:    svc,
		policy: PolicyStrict,
		logger: svc.Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	schema, err := a.buildSchema()
	if err != nil {
		return nil, fmt.Errorf("building schema: %w", err)
	}
	a.schema = schema
	return a, nil
}

// Do executes one request. Errors are reported inside the result.
func (a *API) Do(ctx context.Context, req Request) *graphql.Result {
	res := graphql.Do(graphql.Params{
		Schema:         a.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	if res.HasErrors() {
		a.logger.DebugContext(ctx, "graphql request had errors",
			"operation", req.OperationName, "errors", len(res.Errors))
	}
	return res
}

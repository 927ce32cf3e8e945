// Package policy gates inbound utterances before they reach the resolver.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by Evaluate.
const (
	DecisionAllow   = "allow"
	DecisionHandoff = "handoff"
	DecisionBlock   = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.inbound_policy.decision"),
		rego.Module("inbound_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks an inbound utterance. Input keys: text, user_id.
// Returns allow, handoff (route to a human agent) or block.
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy is the default policy content: everything is allowed, a
// request for a human is handed off.
const DefaultPolicy = `
package inbound_policy

default decision = "allow"

decision = "handoff" {
	contains(input.text, "speak to an agent")
}

decision = "handoff" {
	contains(input.text, "human agent")
}
`

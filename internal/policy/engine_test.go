package policy

import (
	"context"
	"testing"
)

func TestDefaultPolicyAllows(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	decision, err := engine.Evaluate(ctx, map[string]interface{}{
		"text":    "where is my order",
		"user_id": int64(1),
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != DecisionAllow {
		t.Fatalf("expected allow, got %q", decision)
	}
}

func TestDefaultPolicyHandsOffAgentRequests(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	for _, text := range []string{
		"i want to speak to an agent",
		"give me a human agent now",
	} {
		decision, err := engine.Evaluate(ctx, map[string]interface{}{
			"text":    text,
			"user_id": int64(1),
		})
		if err != nil {
			t.Fatalf("Evaluate(%q) failed: %v", text, err)
		}
		if decision != DecisionHandoff {
			t.Fatalf("expected handoff for %q, got %q", text, decision)
		}
	}
}

func TestCustomBlockPolicy(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, `
package inbound_policy

default decision = "allow"

decision = "block" {
	contains(input.text, "forbidden")
}
`)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	decision, err := engine.Evaluate(ctx, map[string]interface{}{"text": "something forbidden"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != DecisionBlock {
		t.Fatalf("expected block, got %q", decision)
	}
}

func TestInvalidPolicyRejected(t *testing.T) {
	if _, err := NewEngine(context.Background(), "not rego at all {"); err == nil {
		t.Fatal("expected error for invalid policy")
	}
}

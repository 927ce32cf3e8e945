package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/catalog"
)

type fakeSource map[string]string

func (f fakeSource) KeywordResponses(ctx context.Context) (map[string]string, error) {
	return f, nil
}

func testSnapshot(t *testing.T, pairs map[string]string) *catalog.Snapshot {
	t.Helper()
	return catalog.Load(context.Background(), fakeSource(pairs)).Snapshot()
}

func noFAQ(ctx context.Context, query string) (string, bool, error) {
	return "", false, nil
}

func TestResolveKeywordMatch(t *testing.T) {
	snap := testSnapshot(t, map[string]string{"refund": "We can process your refund."})

	got := Resolve(context.Background(), "I want a refund please", Context{}, snap, noFAQ)
	if got != "We can process your refund." {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestResolveOrderConfirmation(t *testing.T) {
	snap := testSnapshot(t, map[string]string{"yes": "keyword should not win"})
	conv := Context{LastUtterance: "i want to place an order", LastResponse: "ok"}

	got := Resolve(context.Background(), "Yes", conv, snap, noFAQ)
	if got != OrderConfirmation {
		t.Fatalf("expected order confirmation, got %q", got)
	}
}

func TestResolveRefundConfirmation(t *testing.T) {
	snap := testSnapshot(t, nil)
	conv := Context{LastUtterance: "can i get a refund", LastResponse: "ok"}

	got := Resolve(context.Background(), "confirm please", conv, snap, noFAQ)
	if got != RefundConfirmation {
		t.Fatalf("expected refund confirmation, got %q", got)
	}
}

func TestResolveDeclineShortCircuits(t *testing.T) {
	snap := testSnapshot(t, map[string]string{"thanks": "should not be reached"})
	conv := Context{LastUtterance: "anything", LastResponse: "ok"}

	faqCalled := false
	faq := func(ctx context.Context, q string) (string, bool, error) {
		faqCalled = true
		return "faq answer", true, nil
	}

	got := Resolve(context.Background(), "no thanks", conv, snap, faq)
	if got != DeclineAck {
		t.Fatalf("expected decline ack, got %q", got)
	}
	if faqCalled {
		t.Fatal("FAQ stage consulted after decline short-circuit")
	}
}

func TestResolveAffirmativeWithoutTopicFallsThrough(t *testing.T) {
	snap := testSnapshot(t, map[string]string{"yes": "keyword answer"})
	conv := Context{LastUtterance: "tell me about shipping", LastResponse: "ok"}

	got := Resolve(context.Background(), "yes", conv, snap, noFAQ)
	if got != "keyword answer" {
		t.Fatalf("expected fall-through to keyword stage, got %q", got)
	}
}

func TestResolveContextStageSkippedWithoutPriorTurn(t *testing.T) {
	snap := testSnapshot(t, nil)

	got := Resolve(context.Background(), "yes", Context{}, snap, noFAQ)
	if got == OrderConfirmation || got == RefundConfirmation || got == DeclineAck {
		t.Fatalf("context stage ran without a prior turn: %q", got)
	}
}

func TestResolveFAQBeforeKeyword(t *testing.T) {
	snap := testSnapshot(t, map[string]string{"shipping": "keyword answer"})
	faq := func(ctx context.Context, q string) (string, bool, error) {
		return "faq answer", true, nil
	}

	got := Resolve(context.Background(), "how long does shipping take", Context{}, snap, faq)
	if got != "faq answer" {
		t.Fatalf("expected FAQ answer to win, got %q", got)
	}
}

func TestResolveFAQErrorTreatedAsMiss(t *testing.T) {
	snap := testSnapshot(t, map[string]string{"shipping": "keyword answer"})
	faq := func(ctx context.Context, q string) (string, bool, error) {
		return "", false, errors.New("db down")
	}

	got := Resolve(context.Background(), "shipping question", Context{}, snap, faq)
	if got != "keyword answer" {
		t.Fatalf("expected keyword stage after FAQ error, got %q", got)
	}
}

func TestResolveFallback(t *testing.T) {
	snap := testSnapshot(t, nil)

	got := Resolve(context.Background(), "zzz", Context{}, snap, noFAQ)
	if got != Fallback {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestResolveNormalizes(t *testing.T) {
	snap := testSnapshot(t, map[string]string{"refund": "We can process your refund."})

	got := Resolve(context.Background(), "  I WANT A REFUND  ", Context{}, snap, noFAQ)
	if got != "We can process your refund." {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestResolveEmptyUtterance(t *testing.T) {
	snap := testSnapshot(t, map[string]string{"refund": "We can process your refund."})

	got := Resolve(context.Background(), "", Context{}, snap, noFAQ)
	if got != Fallback {
		t.Fatalf("expected fallback for empty utterance, got %q", got)
	}
}

func TestResolveIdempotent(t *testing.T) {
	snap := testSnapshot(t, map[string]string{"order": "order response"})
	conv := Context{LastUtterance: "previous", LastResponse: "resp"}

	first := Resolve(context.Background(), "about my order", conv, snap, noFAQ)
	second := Resolve(context.Background(), "about my order", conv, snap, noFAQ)
	if first != second {
		t.Fatalf("resolve not idempotent: %q vs %q", first, second)
	}
}

func TestResolveKeywordOrderDeterministic(t *testing.T) {
	snap := testSnapshot(t, map[string]string{
		"order":    "order response",
		"ordering": "ordering response",
		"record":   "record response",
	})

	// "order" sorts before "ordering" and "record"; both "order" and
	// "record" are substrings of the input.
	for i := 0; i < 20; i++ {
		got := Resolve(context.Background(), "my ordering record", Context{}, snap, noFAQ)
		if got != "order response" {
			t.Fatalf("iteration %d: expected lexicographic first match, got %q", i, got)
		}
	}
}

func TestContextUpdate(t *testing.T) {
	conv := Context{}
	conv = conv.Update("first question", "first answer")
	conv = conv.Update("second question", "second answer")

	if conv.LastUtterance != "second question" || conv.LastResponse != "second answer" {
		t.Fatalf("context kept more than one turn: %+v", conv)
	}
}

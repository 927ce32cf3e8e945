// Package resolver implements the layered response-resolution strategy:
// one-turn context follow-up, FAQ lookup, keyword substring match, fallback.
package resolver

import (
	"context"
	"log"
	"strings"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/catalog"
)

// Canned responses for the context and fallback stages.
const (
	OrderConfirmation  = "Okay! I'll proceed with your order. Do you need help with anything else?"
	RefundConfirmation = "Got it! I'll initiate the refund process. Let me know if there's anything else."
	DeclineAck         = "Alright, let me know if you need assistance with anything else."
	Fallback           = "Sorry, I didn't understand that. Could you please rephrase your query?"
)

// Context is the one-turn conversational memory: the previous utterance and
// the response given for it. The zero value means no prior turn.
type Context struct {
	LastUtterance string
	LastResponse  string
}

// Update returns the context after a completed exchange. Older turns are
// discarded; memory never grows beyond one step.
func (c Context) Update(utterance, response string) Context {
	return Context{LastUtterance: utterance, LastResponse: response}
}

// FAQLookup finds a stored answer whose question contains the normalized
// query. A miss is (_, false, nil); errors are treated as misses by Resolve.
type FAQLookup func(ctx context.Context, query string) (string, bool, error)

// Resolve maps one utterance to a response. It never fails and always
// returns a non-empty string. Stages run in fixed order, first match wins:
// context follow-up, FAQ lookup, keyword substring, fallback.
func Resolve(ctx context.Context, raw string, conv Context, snap *catalog.Snapshot, faq FAQLookup) string {
	text := strings.ToLower(strings.TrimSpace(raw))

	// Stage 1: context-aware follow-up, only with a prior turn.
	if conv.LastUtterance != "" {
		if strings.Contains(text, "yes") || strings.Contains(text, "confirm") {
			if strings.Contains(conv.LastUtterance, "order") {
				return OrderConfirmation
			}
			if strings.Contains(conv.LastUtterance, "refund") {
				return RefundConfirmation
			}
			// Affirmative with no confirmable topic: fall through.
		} else if strings.Contains(text, "no") {
			return DeclineAck
		}
	}

	// Stage 2: FAQ lookup. Lookup failure degrades to a miss.
	if faq != nil {
		answer, ok, err := faq(ctx, text)
		if err != nil {
			log.Printf("WARN: faq lookup failed, treating as miss: %v", err)
		} else if ok {
			return answer
		}
	}

	// Stage 3: keyword substring match, in snapshot key order.
	if snap != nil {
		for _, key := range snap.Keys() {
			if strings.Contains(text, key) {
				resp, _ := snap.Response(key)
				return resp
			}
		}
	}

	// Stage 4: fallback.
	return Fallback
}

package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
)

type fakeSource struct {
	pairs map[string]string
	err   error
}

func (f *fakeSource) KeywordResponses(ctx context.Context) (map[string]string, error) {
	return f.pairs, f.err
}

func TestLoadEmptySubstitutesDefault(t *testing.T) {
	c := Load(context.Background(), &fakeSource{})
	snap := c.Snapshot()

	if snap.Len() != 1 {
		t.Fatalf("expected single default entry, got %d", snap.Len())
	}
	resp, ok := snap.Response("default")
	if !ok || resp != DefaultResponse {
		t.Fatalf("unexpected default entry: %q ok=%v", resp, ok)
	}
}

func TestLoadErrorSubstitutesDefault(t *testing.T) {
	c := Load(context.Background(), &fakeSource{err: errors.New("db down")})
	if c.Snapshot().Len() != 1 {
		t.Fatalf("expected default catalog on load error")
	}
}

func TestLoadRejectsBlankKeys(t *testing.T) {
	c := Load(context.Background(), &fakeSource{pairs: map[string]string{
		"":       "blank",
		"   ":    "spaces",
		"refund": "refund response",
	}})
	snap := c.Snapshot()

	if snap.Len() != 1 {
		t.Fatalf("expected blank keys rejected, got %d entries", snap.Len())
	}
	if _, ok := snap.Response("refund"); !ok {
		t.Fatal("valid key missing after load")
	}
}

func TestLoadNormalizesKeys(t *testing.T) {
	c := Load(context.Background(), &fakeSource{pairs: map[string]string{" Refund ": "r"}})
	if _, ok := c.Snapshot().Response("refund"); !ok {
		t.Fatal("key not lowercased and trimmed at load")
	}
}

func TestSnapshotKeysSorted(t *testing.T) {
	c := Load(context.Background(), &fakeSource{pairs: map[string]string{
		"zeta": "z", "alpha": "a", "mid": "m",
	}})
	keys := c.Snapshot().Keys()

	if !sort.StringsAreSorted(keys) {
		t.Fatalf("snapshot keys not sorted: %v", keys)
	}
}

func TestReloadSwapsAtomically(t *testing.T) {
	src := &fakeSource{pairs: map[string]string{"old1": "a", "old2": "b"}}
	c := Load(context.Background(), src)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Readers must always observe a fully-old or fully-new table.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := c.Snapshot()
				_, hasOld := snap.Response("old1")
				_, hasNew := snap.Response("new1")
				if hasOld == hasNew {
					t.Errorf("mixed snapshot observed: old=%v new=%v", hasOld, hasNew)
					return
				}
				if snap.Len() != 2 {
					t.Errorf("unexpected snapshot size %d", snap.Len())
					return
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			src.pairs = map[string]string{"new1": "c", "new2": "d"}
		} else {
			src.pairs = map[string]string{"old1": "a", "old2": "b"}
		}
		c.Reload(context.Background(), src)
	}
	close(stop)
	wg.Wait()
}

func TestReloadDoesNotDisturbHeldSnapshot(t *testing.T) {
	src := &fakeSource{pairs: map[string]string{"before": "b"}}
	c := Load(context.Background(), src)

	held := c.Snapshot()
	src.pairs = map[string]string{"after": "a"}
	c.Reload(context.Background(), src)

	if _, ok := held.Response("before"); !ok {
		t.Fatal("held snapshot changed after reload")
	}
	if _, ok := c.Snapshot().Response("after"); !ok {
		t.Fatal("reload did not publish new table")
	}
}

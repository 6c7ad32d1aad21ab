package state

import (
	"errors"
	"sync"
	"testing"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
)

func entry(id string) contractx.CompletedOrder {
	return contractx.CompletedOrder{
		OrderID:        id,
		ChosenWorkerID: "pizza",
		SkillsUsed:     []string{"Preparar Pizza"},
		ResultText:     "ok",
	}
}

func TestAppendAssignsSequence(t *testing.T) {
	t.Parallel()

	log := NewOrderLog()
	if _, err := log.Append(entry("ORD-001"), entry("ORD-002")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	added, err := log.Append(entry("ORD-003"))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if added[0].Seq != 3 {
		t.Fatalf("unexpected seq: %d", added[0].Seq)
	}

	entries := log.Entries()
	for i, e := range entries {
		if e.Seq != i+1 {
			t.Fatalf("entry %d seq = %d", i, e.Seq)
		}
		if e.Status != contractx.OrderCompleted {
			t.Fatalf("entry %d status = %s", i, e.Status)
		}
		if e.CompletedAt.IsZero() {
			t.Fatalf("entry %d has no completion time", i)
		}
	}
	if entries[0].OrderID != "ORD-001" || entries[2].OrderID != "ORD-003" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}

func TestAppendRejectsInvalidAtomically(t *testing.T) {
	t.Parallel()

	log := NewOrderLog()
	bad := entry("")
	if _, err := log.Append(entry("ORD-001"), bad); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("Append() error = %v, want ErrInvalidEntry", err)
	}
	if log.Len() != 0 {
		t.Fatalf("log must stay empty, got %d", log.Len())
	}
}

func TestEntriesIsACopy(t *testing.T) {
	t.Parallel()

	log := NewOrderLog()
	if _, err := log.Append(entry("ORD-001")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	got := log.Entries()
	got[0].ResultText = "changed"
	got[0].SkillsUsed[0] = "changed"

	again := log.Entries()
	if again[0].ResultText != "ok" || again[0].SkillsUsed[0] != "Preparar Pizza" {
		t.Fatalf("log mutated through copy: %+v", again[0])
	}
}

func TestConcurrentAppendKeepsUniqueSequence(t *testing.T) {
	t.Parallel()

	log := NewOrderLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := log.Append(entry("ORD")); err != nil {
				t.Errorf("Append() error = %v", err)
			}
		}()
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, e := range log.Entries() {
		if seen[e.Seq] {
			t.Fatalf("duplicate seq %d", e.Seq)
		}
		seen[e.Seq] = true
	}
	if len(seen) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(seen))
	}
}

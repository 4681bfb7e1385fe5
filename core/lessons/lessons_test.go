package lessons

import (
	"context"
	"fmt"
	"testing"
)

func TestMergeDeduplicatesExactStrings(t *testing.T) {
	store := NewMemoryStore(10)

	if _, err := store.Merge(context.Background(), []string{"Ask about pets early"}); err != nil {
		t.Fatalf("failed to merge: %v", err)
	}
	merged, err := store.Merge(context.Background(), []string{"Ask about pets early"})
	if err != nil {
		t.Fatalf("failed to merge: %v", err)
	}

	if len(merged) != 1 {
		t.Fatalf("expected merging an identical lesson twice to keep one entry, got %d", len(merged))
	}
}

func TestMergeEvictsOldestBeyondCapacity(t *testing.T) {
	store := NewMemoryStore(3)

	for i := range 5 {
		if _, err := store.Merge(context.Background(), []string{fmt.Sprintf("lesson %d", i)}); err != nil {
			t.Fatalf("failed to merge: %v", err)
		}
	}

	lessons, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	expected := []string{"lesson 2", "lesson 3", "lesson 4"}
	if len(lessons) != len(expected) {
		t.Fatalf("expected the set to be capped at %d entries, got %d", len(expected), len(lessons))
	}
	for i, lesson := range expected {
		if lessons[i] != lesson {
			t.Fatalf("expected entry %d to be %q (oldest evicted first), got %q", i, lesson, lessons[i])
		}
	}
}

func TestMergeSkipsBlankLessons(t *testing.T) {
	store := NewMemoryStore(10)

	merged, err := store.Merge(context.Background(), []string{"", "  ", "Speak slowly"})
	if err != nil {
		t.Fatalf("failed to merge: %v", err)
	}

	if len(merged) != 1 || merged[0] != "Speak slowly" {
		t.Fatalf("expected blank lessons to be dropped, got %v", merged)
	}
}

func TestMergeNeverExceedsCapacityInASingleBatch(t *testing.T) {
	store := NewMemoryStore(2)

	merged, err := store.Merge(context.Background(), []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("failed to merge: %v", err)
	}

	if len(merged) != 2 {
		t.Fatalf("expected at most 2 entries after a large batch, got %d", len(merged))
	}
	if merged[0] != "c" || merged[1] != "d" {
		t.Fatalf("expected the newest entries to survive, got %v", merged)
	}
}

func TestBadgerStoreRoundTripsAcrossMerges(t *testing.T) {
	store, err := NewBadgerStore(BadgerOptions{InMemory: true, Capacity: 3})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	if _, err := store.Merge(context.Background(), []string{"Confirm the address twice"}); err != nil {
		t.Fatalf("failed to merge: %v", err)
	}
	if _, err := store.Merge(context.Background(), []string{"Confirm the address twice", "Ask about pets early"}); err != nil {
		t.Fatalf("failed to merge: %v", err)
	}

	lessons, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	expected := []string{"Confirm the address twice", "Ask about pets early"}
	if len(lessons) != len(expected) {
		t.Fatalf("expected %d persisted lessons, got %d", len(expected), len(lessons))
	}
	for i, lesson := range expected {
		if lessons[i] != lesson {
			t.Fatalf("expected persisted entry %d to be %q, got %q", i, lesson, lessons[i])
		}
	}
}

func TestBadgerStoreRequiresDirForDiskMode(t *testing.T) {
	if _, err := NewBadgerStore(BadgerOptions{}); err == nil {
		t.Fatal("expected on-disk mode without a directory to be rejected")
	}
}

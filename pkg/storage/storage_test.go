package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/conga/pkg/cover"
)

func sampleRun(id, hash string, at time.Time) *Run {
	q := 0.5
	return &Run{
		ID:           id,
		GraphHash:    hash,
		Vertices:     6,
		Edges:        7,
		Measure:      "lazar",
		OptimalCount: 2,
		Snapshots: []cover.Snapshot{
			{Count: 1, Cover: cover.Cover{{0, 1, 2, 3, 4, 5}}},
			{Count: 2, Cover: cover.Cover{{0, 1, 2}, {3, 4, 5}}, Modularity: &q},
		},
		CreatedAt: at.UTC().Truncate(time.Millisecond),
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	hash := "graph-" + NewRunID()

	later := sampleRun(NewRunID(), hash, base.Add(time.Minute))
	earlier := sampleRun(NewRunID(), hash, base)
	other := sampleRun(NewRunID(), "other-"+hash, base)
	for _, r := range []*Run{later, earlier, other} {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Get(ctx, earlier.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.GraphHash != hash || got.OptimalCount != 2 || len(got.Snapshots) != 2 {
		t.Errorf("Get returned %+v", got)
	}
	if q := got.Snapshots[1].Modularity; q == nil || *q != 0.5 {
		t.Errorf("modularity not preserved: %v", q)
	}
	h, err := got.History()
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := h.Cover(2); !ok || len(c) != 2 {
		t.Errorf("History().Cover(2) = %v, %v", c, ok)
	}

	runs, err := s.ListByGraph(ctx, hash)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != earlier.ID || runs[1].ID != later.ID {
		t.Errorf("ListByGraph order wrong: %v", runs)
	}

	later.OptimalCount = 1
	if err := s.Save(ctx, later); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, later.ID); got.OptimalCount != 1 {
		t.Error("Save should replace an existing run")
	}

	if _, err := s.Get(ctx, NewRunID()); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrRunNotFound", err)
	}
	if err := s.Save(ctx, &Run{}); err == nil {
		t.Error("Save without id should fail")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	run := sampleRun("a", "h", time.Now())
	_ = s.Save(ctx, run)
	run.Measure = "mutated"
	if got, _ := s.Get(ctx, "a"); got.Measure != "lazar" {
		t.Error("store should keep its own copy")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)

	if _, err := s.Get(context.Background(), "../escape"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("path-like id error = %v", err)
	}
}

func TestRunCounts(t *testing.T) {
	r := sampleRun("a", "h", time.Now())
	if got := r.Counts(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Counts() = %v", got)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("CONGA_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CONGA_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "conga_test"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

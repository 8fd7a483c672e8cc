package datasets

import (
	"context"
	"testing"

	"github.com/matzehuels/conga/pkg/conga"
)

func TestZachary(t *testing.T) {
	g := Zachary()
	if g.VertexCount() != ZacharyVertices {
		t.Errorf("VertexCount() = %d, want %d", g.VertexCount(), ZacharyVertices)
	}
	if g.EdgeCount() != ZacharyEdges {
		t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), ZacharyEdges)
	}
	if n := len(g.Components()); n != 1 {
		t.Errorf("Components() = %d, want 1", n)
	}
	// The instructor and the officer are the two hubs.
	if d := g.Degree(0); d != 16 {
		t.Errorf("Degree(0) = %d, want 16", d)
	}
	if d := g.Degree(33); d != 17 {
		t.Errorf("Degree(33) = %d, want 17", d)
	}
}

func TestZacharyFactions(t *testing.T) {
	f := ZacharyFactions()
	if len(f) != 2 || len(f[0]) != 17 || len(f[1]) != 17 {
		t.Fatalf("faction sizes = %d/%d, want 17/17", len(f[0]), len(f[1]))
	}
	if !f.Covers(ZacharyVertices) || len(f.Overlapping()) != 0 {
		t.Error("factions should partition the club")
	}
}

func TestZacharyDecomposition(t *testing.T) {
	if testing.Short() {
		t.Skip("full decomposition in -short mode")
	}
	g := Zachary()
	res, err := conga.Decompose(context.Background(), g, conga.Options{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}

	counts := res.Counts()
	if counts[0] != 1 {
		t.Errorf("first count = %d, want 1", counts[0])
	}
	for _, k := range counts {
		c, _ := res.Cover(k)
		if !c.Covers(ZacharyVertices) {
			t.Fatalf("cover at %d misses a member", k)
		}
	}
	if _, err := res.OptimalCover(); err != nil {
		t.Errorf("OptimalCover: %v", err)
	}
}

package cover

import (
	"fmt"
	"slices"
)

// Snapshot is one entry of a [History]: the cover recorded when the working
// graph reached Count components, and its eagerly computed modularity if any.
type Snapshot struct {
	Count      int      `json:"count"`
	Cover      Cover    `json:"cover"`
	Modularity *float64 `json:"modularity,omitempty"`
}

// History is the append-only record of one decomposition run. Cluster counts
// must be recorded in strictly increasing order.
//
// A History is owned by a single run and is not safe for concurrent use.
type History struct {
	snapshots []Snapshot
}

// Record appends the cover for cluster count k.
func (h *History) Record(k int, c Cover) error {
	if n := len(h.snapshots); n > 0 && h.snapshots[n-1].Count >= k {
		return fmt.Errorf("cluster count %d recorded after %d", k, h.snapshots[n-1].Count)
	}
	h.snapshots = append(h.snapshots, Snapshot{Count: k, Cover: c})
	return nil
}

// SetModularity stores an eagerly computed modularity for count k.
func (h *History) SetModularity(k int, q float64) error {
	i, ok := h.find(k)
	if !ok {
		return fmt.Errorf("no cover recorded for cluster count %d", k)
	}
	h.snapshots[i].Modularity = &q
	return nil
}

// Counts returns the recorded cluster counts in ascending order.
func (h *History) Counts() []int {
	out := make([]int, len(h.snapshots))
	for i, s := range h.snapshots {
		out[i] = s.Count
	}
	return out
}

// Cover returns the cover recorded for count k.
func (h *History) Cover(k int) (Cover, bool) {
	i, ok := h.find(k)
	if !ok {
		return nil, false
	}
	return h.snapshots[i].Cover, true
}

// Modularity returns the eager modularity for count k, if one was stored.
func (h *History) Modularity(k int) (float64, bool) {
	i, ok := h.find(k)
	if !ok || h.snapshots[i].Modularity == nil {
		return 0, false
	}
	return *h.snapshots[i].Modularity, true
}

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Snapshots returns a copy of the recorded entries.
func (h *History) Snapshots() []Snapshot { return slices.Clone(h.snapshots) }

// FromSnapshots rebuilds a History, for example from a cached payload.
func FromSnapshots(snaps []Snapshot) (*History, error) {
	h := &History{}
	for _, s := range snaps {
		if err := h.Record(s.Count, s.Cover); err != nil {
			return nil, err
		}
		if s.Modularity != nil {
			h.snapshots[len(h.snapshots)-1].Modularity = s.Modularity
		}
	}
	return h, nil
}

func (h *History) find(k int) (int, bool) {
	return slices.BinarySearchFunc(h.snapshots, k, func(s Snapshot, k int) int {
		return s.Count - k
	})
}

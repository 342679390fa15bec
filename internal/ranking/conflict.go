// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package ranking

import "fmt"

// resolveConflicts marks all but the best-placed event of each schedule
// conflict group as excluded. Entries must already be in final sorted order.
// Conflict groups are the transitive closure of pairwise time-window
// overlap: if A overlaps B and B overlaps C, all three form one group even
// when A and C do not touch. Open-ended events, zero-duration events,
// malformed windows, and events at or above the exemption duration never
// join a group.
func resolveConflicts(entries []RankedEvent, cfg ConflictConfig) {
	n := len(entries)
	uf := newUnionFind(n)

	eligible := make([]bool, n)
	for i := range entries {
		eligible[i] = conflictEligible(&entries[i].Event, cfg)
	}

	for i := 0; i < n; i++ {
		if !eligible[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if !eligible[j] {
				continue
			}
			if windowsOverlap(&entries[i].Event, &entries[j].Event) {
				uf.union(i, j)
			}
		}
	}

	// Entries are sorted best-first, so the first entry seen per group is
	// the one to keep.
	keeper := make(map[int]int, n)
	for i := range entries {
		if !eligible[i] {
			continue
		}
		root := uf.find(i)
		k, seen := keeper[root]
		if !seen {
			keeper[root] = i
			continue
		}
		entries[i].Excluded = true
		entries[i].Rank = 0
		entries[i].ConflictsWith = entries[k].Event.ID
		entries[i].ExclusionReason = fmt.Sprintf("excluded: conflicts with event %s", entries[k].Event.ID)
	}
}

// conflictEligible reports whether an event participates in conflict
// grouping.
func conflictEligible(ev *CandidateEvent, cfg ConflictConfig) bool {
	if ev.OpenEnded() || !ev.EndTime.After(ev.StartTime) {
		return false
	}
	if cfg.ExemptDuration > 0 && ev.Duration() >= cfg.ExemptDuration {
		return false
	}
	return true
}

// windowsOverlap reports whether two closed time windows intersect.
// Back-to-back events sharing only a boundary instant do not conflict.
func windowsOverlap(a, b *CandidateEvent) bool {
	return a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime)
}

// unionFind is a path-compressing disjoint-set over entry indices.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

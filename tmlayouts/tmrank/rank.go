// Package tmrank assigns topological ranks to named nodes: the rank of a node
// is the length of the longest predecessor chain leading to it. The graph and
// ER layout engines both rank their diagrams with it.
package tmrank

// Assign computes a rank for every node. Nodes without predecessors get rank
// 0; otherwise rank(n) = 1 + max rank over n's predecessors. Self edges must
// not appear in preds (callers drop them).
//
// Cycles are not rejected: a node revisited while its own rank is still being
// computed counts as rank 0, which breaks the recursion and keeps every
// parser-accepted diagram renderable. Whether cyclic diagrams deserve a
// better layout than this is an open product question.
func Assign(nodes []string, preds map[string][]string) map[string]int {
	ranks := make(map[string]int, len(nodes))
	visiting := make(map[string]bool)

	var rank func(id string) int
	rank = func(id string) int {
		if r, ok := ranks[id]; ok {
			return r
		}
		if visiting[id] {
			return 0
		}
		visiting[id] = true
		defer delete(visiting, id)

		r := 0
		for _, p := range preds[id] {
			r = max(r, rank(p)+1)
		}
		ranks[id] = r
		return r
	}

	for _, n := range nodes {
		rank(n)
	}
	return ranks
}

// Grouped buckets node ids by rank, preserving the given node order within
// each bucket. The result has max(rank)+1 buckets.
func Grouped(nodes []string, ranks map[string]int) [][]string {
	maxRank := 0
	for _, n := range nodes {
		maxRank = max(maxRank, ranks[n])
	}
	groups := make([][]string, maxRank+1)
	for _, n := range nodes {
		groups[ranks[n]] = append(groups[ranks[n]], n)
	}
	return groups
}

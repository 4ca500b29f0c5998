package index

// step is one outgoing edge from a company in the traversal direction.
type step[H any] struct {
	to  string
	hop H
}

// reach is a company found by expand together with the hops leading to it.
type reach[H any] struct {
	company string
	hops    []H
}

// expand runs a level-bounded breadth-first search from source.
//
// Level 1 follows the direct edges of source. Level k+1 extends every reach
// found at level k by each edge to a company that has not been visited yet.
// The visited set starts with source and grows after each level, so a
// company is reported only at the depth where it is first discovered. Reaches
// to the same company at that depth over different hops are all kept, once
// per distinct key.
//
// lastAdded is the number of new companies found by the final level when the
// level budget ran out; it is zero when the search exhausted on its own.
func expand[H any](
	source string,
	maxLevels int,
	next func(company string) []step[H],
	key func(company string, hops []H) string,
) (found []reach[H], lastAdded int) {
	if maxLevels < 1 {
		return nil, 0
	}

	visited := map[string]struct{}{source: {}}
	frontier := []reach[H]{{company: source}}

	for level := 1; level <= maxLevels && len(frontier) > 0; level++ {
		var discovered []reach[H]
		seen := make(map[string]struct{})
		added := make(map[string]struct{})

		for _, from := range frontier {
			for _, s := range next(from.company) {
				if _, ok := visited[s.to]; ok {
					continue
				}

				hops := make([]H, len(from.hops)+1)
				copy(hops, from.hops)
				hops[len(from.hops)] = s.hop

				k := key(s.to, hops)
				if _, ok := seen[k]; ok {
					continue
				}
				seen[k] = struct{}{}
				added[s.to] = struct{}{}
				discovered = append(discovered, reach[H]{company: s.to, hops: hops})
			}
		}

		for c := range added {
			visited[c] = struct{}{}
		}
		found = append(found, discovered...)
		frontier = discovered
		lastAdded = len(added)
	}

	return found, lastAdded
}

package index

import (
	"cmp"
	"maps"
	"slices"

	"github.com/joss/ubo/internal/domain"
)

// ParentshipIndex indexes company to company parentship edges in both
// directions.
type ParentshipIndex struct {
	parentships []domain.Parentship
	byParent    map[string][]domain.Parentship
	byChild     map[string][]domain.Parentship
	log         Logger
}

// NewParentshipIndex builds the index. Identical records collapse into one.
func NewParentshipIndex(records []domain.Parentship, opts ...Option) *ParentshipIndex {
	o := buildOptions(opts)

	unique := make(map[domain.Parentship]struct{}, len(records))
	for _, r := range records {
		unique[r] = struct{}{}
	}
	parentships := slices.SortedFunc(maps.Keys(unique), func(a, b domain.Parentship) int {
		return cmp.Or(
			cmp.Compare(a.Child, b.Child),
			cmp.Compare(a.Parent, b.Parent),
			cmp.Compare(a.Share, b.Share),
		)
	})

	idx := &ParentshipIndex{
		parentships: parentships,
		byParent:    make(map[string][]domain.Parentship),
		byChild:     make(map[string][]domain.Parentship),
		log:         o.log,
	}
	for _, r := range parentships {
		idx.byParent[r.Parent] = append(idx.byParent[r.Parent], r)
		idx.byChild[r.Child] = append(idx.byChild[r.Child], r)
	}

	idx.log.Info("parentship_index_built", map[string]any{
		"parentships": len(parentships),
		"companies":   len(idx.Companies()),
	})
	return idx
}

// Len returns the number of distinct parentship edges.
func (x *ParentshipIndex) Len() int {
	return len(x.parentships)
}

// Parentships returns every edge in the index.
func (x *ParentshipIndex) Parentships() []domain.Parentship {
	return slices.Clone(x.parentships)
}

// Parents returns every company that is a parent of some company.
func (x *ParentshipIndex) Parents() []string {
	return slices.Sorted(maps.Keys(x.byParent))
}

// Children returns every company that has at least one parent.
func (x *ParentshipIndex) Children() []string {
	return slices.Sorted(maps.Keys(x.byChild))
}

// Companies returns every company on either side of an edge.
func (x *ParentshipIndex) Companies() []string {
	all := make(map[string]struct{}, len(x.byParent)+len(x.byChild))
	for c := range x.byParent {
		all[c] = struct{}{}
	}
	for c := range x.byChild {
		all[c] = struct{}{}
	}
	return slices.Sorted(maps.Keys(all))
}

// ParentsOf returns the direct edges into company.
func (x *ParentshipIndex) ParentsOf(company string) []domain.Parentship {
	return slices.Clone(x.byChild[company])
}

// ChildrenOf returns the direct edges out of company.
func (x *ParentshipIndex) ChildrenOf(company string) []domain.Parentship {
	return slices.Clone(x.byParent[company])
}

// AncestorsOf follows parent edges upward from company for up to maxLevels
// hops. Each ancestor carries the hops of its shallowest discovery, starting
// with the edge into company. A maxLevels below 1 returns nothing, not even
// the direct parents.
func (x *ParentshipIndex) AncestorsOf(company string, maxLevels int) []domain.Chain {
	return x.walk(company, maxLevels, "ancestors", func(c string) []step[domain.Parentship] {
		edges := x.byChild[c]
		steps := make([]step[domain.Parentship], len(edges))
		for i, e := range edges {
			steps[i] = step[domain.Parentship]{to: e.Parent, hop: e}
		}
		return steps
	})
}

// DescendantsOf follows child edges downward from company for up to
// maxLevels hops. A maxLevels below 1 returns nothing.
func (x *ParentshipIndex) DescendantsOf(company string, maxLevels int) []domain.Chain {
	return x.walk(company, maxLevels, "descendants", func(c string) []step[domain.Parentship] {
		edges := x.byParent[c]
		steps := make([]step[domain.Parentship], len(edges))
		for i, e := range edges {
			steps[i] = step[domain.Parentship]{to: e.Child, hop: e}
		}
		return steps
	})
}

func (x *ParentshipIndex) walk(company string, maxLevels int, direction string, next func(string) []step[domain.Parentship]) []domain.Chain {
	found, added := expand(company, maxLevels, next, func(c string, hops []domain.Parentship) string {
		return domain.Chain{Company: c, Hops: hops}.Key()
	})
	warnDepth(x.log, company, direction, maxLevels, added)

	chains := make([]domain.Chain, len(found))
	for i, r := range found {
		chains[i] = domain.Chain{Company: r.company, Hops: r.hops}
	}
	return chains
}

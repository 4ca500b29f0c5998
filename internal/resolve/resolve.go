// Package resolve computes the beneficial owners of a company by combining
// direct ownership with ownership of its ancestor companies.
package resolve

import (
	"cmp"
	"maps"
	"slices"

	"github.com/joss/ubo/internal/domain"
)

// OwnerLookup returns the direct owners of a company.
type OwnerLookup interface {
	OwnersOf(company string) []domain.Ownership
}

// AncestorLookup returns the ancestor chains of a company.
type AncestorLookup interface {
	AncestorsOf(company string, maxLevels int) []domain.Chain
}

// BeneficialOwners returns one ChainedOwnership per person owning target
// directly or through an ancestor found within maxLevels parentship hops,
// sorted by descending share.
//
// A path's share is the product of its ownership share and every hop share.
// A person's share is the sum over their distinct paths. Shares are neither
// normalized nor capped, so the total can exceed 1 when paths overlap.
func BeneficialOwners(target string, owners OwnerLookup, lineage AncestorLookup, maxLevels int) []domain.ChainedOwnership {
	acc := newAccumulator(target)

	for _, o := range owners.OwnersOf(target) {
		acc.add(domain.OwnershipPath{Ownership: o})
	}

	chains := make(map[string][]domain.Chain)
	var order []string
	for _, a := range lineage.AncestorsOf(target, maxLevels) {
		if _, ok := chains[a.Company]; !ok {
			order = append(order, a.Company)
		}
		chains[a.Company] = append(chains[a.Company], a)
	}

	for _, company := range order {
		for _, o := range owners.OwnersOf(company) {
			for _, ch := range chains[company] {
				acc.add(domain.OwnershipPath{Ownership: o, Hops: slices.Clone(ch.Hops)})
			}
		}
	}

	return acc.results()
}

// TotalShare sums the shares of all owners. It is a checksum, not a
// constraint: nothing requires it to equal 1.
func TotalShare(owners []domain.ChainedOwnership) float64 {
	var total float64
	for _, o := range owners {
		total += o.Share
	}
	return total
}

// accumulator collects the distinct paths of each person for one target.
type accumulator struct {
	target string
	paths  map[string]map[string]domain.OwnershipPath
}

func newAccumulator(target string) *accumulator {
	return &accumulator{
		target: target,
		paths:  make(map[string]map[string]domain.OwnershipPath),
	}
}

func (a *accumulator) add(p domain.OwnershipPath) {
	person := p.Ownership.Person
	if a.paths[person] == nil {
		a.paths[person] = make(map[string]domain.OwnershipPath)
	}
	a.paths[person][p.Key()] = p
}

func (a *accumulator) results() []domain.ChainedOwnership {
	out := make([]domain.ChainedOwnership, 0, len(a.paths))

	for person, byKey := range a.paths {
		keys := slices.Sorted(maps.Keys(byKey))
		paths := make([]domain.OwnershipPath, len(keys))
		var share float64
		for i, k := range keys {
			paths[i] = byKey[k]
			share += paths[i].FinalShare()
		}
		out = append(out, domain.ChainedOwnership{
			Person:  person,
			Company: a.target,
			Share:   share,
			Paths:   paths,
		})
	}

	slices.SortFunc(out, func(x, y domain.ChainedOwnership) int {
		return cmp.Or(
			cmp.Compare(y.Share, x.Share),
			cmp.Compare(x.Person, y.Person),
		)
	})
	return out
}

package index

import (
	"cmp"
	"maps"
	"slices"

	"github.com/joss/ubo/internal/domain"
)

// OwnershipIndex indexes person to company ownership edges in both
// directions.
type OwnershipIndex struct {
	ownerships []domain.Ownership
	byPerson   map[string][]domain.Ownership
	byCompany  map[string][]domain.Ownership
	log        Logger
}

// NewOwnershipIndex builds the index. Identical records collapse into one.
func NewOwnershipIndex(records []domain.Ownership, opts ...Option) *OwnershipIndex {
	o := buildOptions(opts)

	unique := make(map[domain.Ownership]struct{}, len(records))
	for _, r := range records {
		unique[r] = struct{}{}
	}
	ownerships := slices.SortedFunc(maps.Keys(unique), compareOwnership)

	idx := &OwnershipIndex{
		ownerships: ownerships,
		byPerson:   make(map[string][]domain.Ownership),
		byCompany:  make(map[string][]domain.Ownership),
		log:        o.log,
	}
	for _, r := range ownerships {
		idx.byPerson[r.Person] = append(idx.byPerson[r.Person], r)
		idx.byCompany[r.Company] = append(idx.byCompany[r.Company], r)
	}

	idx.log.Info("ownership_index_built", map[string]any{
		"ownerships": len(ownerships),
		"persons":    len(idx.byPerson),
		"companies":  len(idx.byCompany),
	})
	return idx
}

func compareOwnership(a, b domain.Ownership) int {
	return cmp.Or(
		cmp.Compare(a.Company, b.Company),
		cmp.Compare(a.Person, b.Person),
		cmp.Compare(a.Share, b.Share),
	)
}

// Len returns the number of distinct ownership edges.
func (x *OwnershipIndex) Len() int {
	return len(x.ownerships)
}

// Ownerships returns every edge in the index.
func (x *OwnershipIndex) Ownerships() []domain.Ownership {
	return slices.Clone(x.ownerships)
}

// Persons returns every person that owns at least one company.
func (x *OwnershipIndex) Persons() []string {
	return slices.Sorted(maps.Keys(x.byPerson))
}

// Companies returns every company with at least one owner.
func (x *OwnershipIndex) Companies() []string {
	return slices.Sorted(maps.Keys(x.byCompany))
}

// OwnersOf returns the direct ownership edges into company.
func (x *OwnershipIndex) OwnersOf(company string) []domain.Ownership {
	return slices.Clone(x.byCompany[company])
}

// HoldingsOf returns the direct ownership edges out of person.
func (x *OwnershipIndex) HoldingsOf(person string) []domain.Ownership {
	return slices.Clone(x.byPerson[person])
}

// LinkedCompaniesOneHop returns every other company that shares an owner
// with company, one result per distinct shared-owner hop.
func (x *OwnershipIndex) LinkedCompaniesOneHop(company string) []domain.LinkedCompany {
	steps := x.sameOwnerSteps(company)
	linked := make([]domain.LinkedCompany, 0, len(steps))
	for _, s := range steps {
		linked = append(linked, domain.LinkedCompany{Company: s.to, Via: []domain.SameOwner{s.hop}})
	}
	return linked
}

// LinkedCompanies expands LinkedCompaniesOneHop up to maxLevels hops. A
// company is reported only with the hop sequences of its shallowest
// discovery. A maxLevels below 1 returns nothing, not even the one-hop
// links.
func (x *OwnershipIndex) LinkedCompanies(company string, maxLevels int) []domain.LinkedCompany {
	found, added := expand(company, maxLevels, x.sameOwnerSteps, func(c string, hops []domain.SameOwner) string {
		return domain.LinkedCompany{Company: c, Via: hops}.Key()
	})
	warnDepth(x.log, company, "linked", maxLevels, added)

	linked := make([]domain.LinkedCompany, len(found))
	for i, r := range found {
		linked[i] = domain.LinkedCompany{Company: r.company, Via: r.hops}
	}
	return linked
}

func (x *OwnershipIndex) sameOwnerSteps(company string) []step[domain.SameOwner] {
	var steps []step[domain.SameOwner]
	seen := make(map[domain.SameOwner]struct{})

	for _, owner := range x.byCompany[company] {
		for _, held := range x.byPerson[owner.Person] {
			if held.Company == company {
				continue
			}
			hop := domain.SameOwner{
				Person:   owner.Person,
				CompanyA: company,
				ShareA:   owner.Share,
				CompanyB: held.Company,
				ShareB:   held.Share,
			}
			if _, ok := seen[hop]; ok {
				continue
			}
			seen[hop] = struct{}{}
			steps = append(steps, step[domain.SameOwner]{to: held.Company, hop: hop})
		}
	}
	return steps
}

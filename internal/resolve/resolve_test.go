package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/ubo/internal/domain"
	"github.com/joss/ubo/internal/index"
)

const eps = 1e-12

func build(owns []domain.Ownership, parents []domain.Parentship) (*index.OwnershipIndex, *index.ParentshipIndex) {
	return index.NewOwnershipIndex(owns), index.NewParentshipIndex(parents)
}

func find(t *testing.T, owners []domain.ChainedOwnership, person string) domain.ChainedOwnership {
	t.Helper()
	for _, o := range owners {
		if o.Person == person {
			return o
		}
	}
	require.Failf(t, "owner not found", "person %q", person)
	return domain.ChainedOwnership{}
}

func TestDirectOwner(t *testing.T) {
	p2c, c2c := build([]domain.Ownership{{Person: "p1", Company: "C", Share: 0.3}}, nil)

	owners := BeneficialOwners("C", p2c, c2c, 3)
	require.Len(t, owners, 1)
	assert.Equal(t, "p1", owners[0].Person)
	assert.Equal(t, "C", owners[0].Company)
	assert.InDelta(t, 0.3, owners[0].Share, eps)
	require.Len(t, owners[0].Paths, 1)
	assert.Empty(t, owners[0].Paths[0].Hops)
}

func TestOwnerThroughParent(t *testing.T) {
	p2c, c2c := build(
		[]domain.Ownership{{Person: "p2", Company: "B", Share: 0.4}},
		[]domain.Parentship{{Parent: "B", Child: "C", Share: 0.5}},
	)

	owners := BeneficialOwners("C", p2c, c2c, 3)
	require.Len(t, owners, 1)
	assert.Equal(t, "p2", owners[0].Person)
	assert.InDelta(t, 0.20, owners[0].Share, eps)
	assert.Equal(t, "p2>0.4>B,B>0.500>C", owners[0].Paths[0].String())
}

func TestDirectAndIndirectPathsAdd(t *testing.T) {
	p2c, c2c := build(
		[]domain.Ownership{
			{Person: "p", Company: "C", Share: 0.3},
			{Person: "p", Company: "B", Share: 0.4},
		},
		[]domain.Parentship{{Parent: "B", Child: "C", Share: 0.5}},
	)

	owners := BeneficialOwners("C", p2c, c2c, 3)
	require.Len(t, owners, 1)
	assert.InDelta(t, 0.50, owners[0].Share, eps)
	assert.Len(t, owners[0].Paths, 2)
}

func TestShareIsProductAlongChain(t *testing.T) {
	p2c, c2c := build(
		[]domain.Ownership{{Person: "p", Company: "A", Share: 0.9}},
		[]domain.Parentship{
			{Parent: "A", Child: "X", Share: 0.25},
			{Parent: "X", Child: "B", Share: 0.8},
			{Parent: "B", Child: "C", Share: 0.5},
		},
	)

	owners := BeneficialOwners("C", p2c, c2c, 5)
	require.Len(t, owners, 1)
	assert.InDelta(t, 0.9*0.5*0.8*0.25, owners[0].Share, eps)
	require.Len(t, owners[0].Paths, 1)
	assert.Len(t, owners[0].Paths[0].Hops, 3)
}

func TestLevelsBoundAncestors(t *testing.T) {
	p2c, c2c := build(
		[]domain.Ownership{{Person: "p", Company: "A", Share: 1}},
		[]domain.Parentship{
			{Parent: "A", Child: "B", Share: 1},
			{Parent: "B", Child: "C", Share: 1},
		},
	)

	assert.Empty(t, BeneficialOwners("C", p2c, c2c, 1))
	assert.Len(t, BeneficialOwners("C", p2c, c2c, 2), 1)
}

func TestIndependentStructuresAdd(t *testing.T) {
	p2c, c2c := build(
		[]domain.Ownership{
			{Person: "p", Company: "B1", Share: 0.5},
			{Person: "p", Company: "B2", Share: 1},
		},
		[]domain.Parentship{
			{Parent: "B1", Child: "C", Share: 0.4},
			{Parent: "B2", Child: "C", Share: 0.1},
		},
	)

	owners := BeneficialOwners("C", p2c, c2c, 3)
	require.Len(t, owners, 1)
	assert.InDelta(t, 0.5*0.4+1*0.1, owners[0].Share, eps)
	assert.Len(t, owners[0].Paths, 2)
}

func TestSameDepthChainsBothContribute(t *testing.T) {
	// A owns C through B1 and through B2, both at depth 2.
	p2c, c2c := build(
		[]domain.Ownership{{Person: "p", Company: "A", Share: 1}},
		[]domain.Parentship{
			{Parent: "B1", Child: "C", Share: 0.5},
			{Parent: "B2", Child: "C", Share: 0.5},
			{Parent: "A", Child: "B1", Share: 0.2},
			{Parent: "A", Child: "B2", Share: 0.4},
		},
	)

	owners := BeneficialOwners("C", p2c, c2c, 3)
	require.Len(t, owners, 1)
	assert.InDelta(t, 0.5*0.2+0.5*0.4, owners[0].Share, eps)
	assert.Len(t, owners[0].Paths, 2)
}

func TestDeeperRouteToKnownAncestorIsIgnored(t *testing.T) {
	// A is a direct parent of C and also reaches C through B; only the
	// shallow chain to A counts.
	p2c, c2c := build(
		[]domain.Ownership{{Person: "p", Company: "A", Share: 1}},
		[]domain.Parentship{
			{Parent: "A", Child: "C", Share: 0.1},
			{Parent: "A", Child: "B", Share: 1},
			{Parent: "B", Child: "C", Share: 0.5},
		},
	)

	owners := BeneficialOwners("C", p2c, c2c, 3)
	require.Len(t, owners, 1)
	assert.InDelta(t, 0.1, owners[0].Share, eps)
}

func TestSharesAreNotCapped(t *testing.T) {
	p2c, c2c := build(
		[]domain.Ownership{
			{Person: "p", Company: "C", Share: 1},
			{Person: "p", Company: "B", Share: 1},
		},
		[]domain.Parentship{{Parent: "B", Child: "C", Share: 1}},
	)

	owners := BeneficialOwners("C", p2c, c2c, 3)
	require.Len(t, owners, 1)
	assert.InDelta(t, 2.0, owners[0].Share, eps)
}

func TestDuplicateDirectRecordsWithDifferentShares(t *testing.T) {
	p2c, c2c := build(
		[]domain.Ownership{
			{Person: "p", Company: "C", Share: 0.1},
			{Person: "p", Company: "C", Share: 0.2},
		},
		nil,
	)

	owners := BeneficialOwners("C", p2c, c2c, 3)
	require.Len(t, owners, 1)
	assert.InDelta(t, 0.3, owners[0].Share, eps)
	assert.Len(t, owners[0].Paths, 2)
}

func TestSortedByShareDescending(t *testing.T) {
	p2c, c2c := build(
		[]domain.Ownership{
			{Person: "small", Company: "C", Share: 0.1},
			{Person: "big", Company: "C", Share: 0.6},
			{Person: "tieB", Company: "C", Share: 0.15},
			{Person: "tieA", Company: "C", Share: 0.15},
			{Person: "viaB", Company: "B", Share: 1},
		},
		[]domain.Parentship{{Parent: "B", Child: "C", Share: 0.4}},
	)

	owners := BeneficialOwners("C", p2c, c2c, 3)
	got := make([]string, len(owners))
	for i, o := range owners {
		got[i] = o.Person
	}
	assert.Equal(t, []string{"big", "viaB", "tieA", "tieB", "small"}, got)
	assert.InDelta(t, 1.4, TotalShare(owners), eps)
}

func TestDeterministic(t *testing.T) {
	owns := []domain.Ownership{
		{Person: "p1", Company: "C", Share: 0.3},
		{Person: "p2", Company: "B", Share: 0.4},
		{Person: "p3", Company: "A", Share: 0.5},
		{Person: "p1", Company: "A", Share: 0.5},
	}
	parents := []domain.Parentship{
		{Parent: "B", Child: "C", Share: 0.5},
		{Parent: "A", Child: "B", Share: 0.5},
	}

	p2c, c2c := build(owns, parents)
	first := BeneficialOwners("C", p2c, c2c, 3)
	for range 5 {
		assert.Equal(t, first, BeneficialOwners("C", p2c, c2c, 3))
	}

	assert.InDelta(t, 0.3+0.5*0.5*0.5, find(t, first, "p1").Share, eps)
	assert.InDelta(t, 0.5*0.5*0.5, find(t, first, "p3").Share, eps)
}

func TestCyclicParentshipTerminates(t *testing.T) {
	p2c, c2c := build(
		[]domain.Ownership{
			{Person: "pa", Company: "A", Share: 1},
			{Person: "pb", Company: "B", Share: 1},
		},
		[]domain.Parentship{
			{Parent: "A", Child: "B", Share: 0.5},
			{Parent: "B", Child: "A", Share: 0.5},
			{Parent: "A", Child: "C", Share: 1},
		},
	)

	owners := BeneficialOwners("C", p2c, c2c, 5)
	require.Len(t, owners, 2)
	assert.InDelta(t, 1.0, find(t, owners, "pa").Share, eps)
	assert.InDelta(t, 0.5, find(t, owners, "pb").Share, eps)
}

func TestUnknownTargetIsEmpty(t *testing.T) {
	p2c, c2c := build(
		[]domain.Ownership{{Person: "p", Company: "C", Share: 1}},
		[]domain.Parentship{{Parent: "B", Child: "C", Share: 1}},
	)

	owners := BeneficialOwners("nope", p2c, c2c, 3)
	assert.Empty(t, owners)
	assert.Zero(t, TotalShare(owners))
}

type stubLookup struct {
	owners    map[string][]domain.Ownership
	ancestors []domain.Chain
	levels    int
}

func (s *stubLookup) OwnersOf(c string) []domain.Ownership { return s.owners[c] }

func (s *stubLookup) AncestorsOf(_ string, levels int) []domain.Chain {
	s.levels = levels
	return s.ancestors
}

func TestAcceptsAnyLookup(t *testing.T) {
	stub := &stubLookup{
		owners: map[string][]domain.Ownership{
			"B": {{Person: "p", Company: "B", Share: 0.5}},
		},
		ancestors: []domain.Chain{{Company: "B", Hops: []domain.Parentship{{Parent: "B", Child: "C", Share: 0.5}}}},
	}

	owners := BeneficialOwners("C", stub, stub, 7)
	require.Len(t, owners, 1)
	assert.InDelta(t, 0.25, owners[0].Share, eps)
	assert.Equal(t, 7, stub.levels)
}

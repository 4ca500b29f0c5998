package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Rendering Tests ---

func TestRendering(t *testing.T) {
	tests := []struct {
		name string
		v    interface{ String() string }
		want string
	}{
		{"ownership", Ownership{"p1", "C", 0.3}, "p1>0.3>C"},
		{"ownership integral share", Ownership{"p1", "C", 1}, "p1>1.0>C"},
		{"parentship", Parentship{"B", "C", 0.5}, "B>0.500>C"},
		{"parentship rounds", Parentship{"B", "C", 1.0 / 3}, "B>0.333>C"},
		{"same owner", SameOwner{"p", "A", 0.2, "B", 0.7}, "A<p>B"},
		{
			"linked company",
			LinkedCompany{Company: "D", Via: []SameOwner{{"p", "A", 0.2, "B", 0.7}, {"q", "B", 0.1, "D", 0.9}}},
			"D via A<p>B,B<q>D",
		},
		{
			"chain",
			Chain{Company: "A", Hops: []Parentship{{"B", "C", 0.5}, {"A", "B", 0.25}}},
			"A via B>0.500>C,A>0.250>B",
		},
		{"direct path", OwnershipPath{Ownership: Ownership{"p1", "C", 0.3}}, "p1>0.3>C"},
		{
			"indirect path",
			OwnershipPath{Ownership: Ownership{"p2", "B", 0.4}, Hops: []Parentship{{"B", "C", 0.5}}},
			"p2>0.4>B,B>0.500>C",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestChainedOwnershipString(t *testing.T) {
	c := ChainedOwnership{
		Person:  "p",
		Company: "C",
		Share:   0.5,
		Paths: []OwnershipPath{
			{Ownership: Ownership{"p", "C", 0.3}},
			{Ownership: Ownership{"p", "B", 0.4}, Hops: []Parentship{{"B", "C", 0.5}}},
		},
	}
	assert.Equal(t, "p>0.5>C via 2 paths [p>0.3>C; p>0.4>B,B>0.500>C]", c.String())
}

// --- Identity Tests ---

func TestOwnershipIsComparable(t *testing.T) {
	set := map[Ownership]struct{}{}
	set[Ownership{"p", "C", 0.3}] = struct{}{}
	set[Ownership{"p", "C", 0.3}] = struct{}{}
	set[Ownership{"p", "C", 0.4}] = struct{}{}
	assert.Len(t, set, 2)
}

func TestChainKey(t *testing.T) {
	a := Chain{Company: "A", Hops: []Parentship{{"A", "C", 0.5}}}
	b := Chain{Company: "A", Hops: []Parentship{{"A", "C", 0.5}}}
	c := Chain{Company: "A", Hops: []Parentship{{"B", "C", 0.5}, {"A", "B", 1}}}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, 2, c.Depth())
}

func TestKeyKeepsFullPrecision(t *testing.T) {
	// Display rounds to 3 decimals, identity must not.
	a := Chain{Company: "A", Hops: []Parentship{{"A", "C", 0.5001}}}
	b := Chain{Company: "A", Hops: []Parentship{{"A", "C", 0.5002}}}

	assert.Equal(t, a.String(), b.String())
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestLinkedCompanyKey(t *testing.T) {
	viaP := LinkedCompany{Company: "B", Via: []SameOwner{{"p", "A", 0.2, "B", 0.7}}}
	viaQ := LinkedCompany{Company: "B", Via: []SameOwner{{"q", "A", 0.2, "B", 0.7}}}
	assert.NotEqual(t, viaP.Key(), viaQ.Key())
}

func TestOwnershipPathKey(t *testing.T) {
	direct := OwnershipPath{Ownership: Ownership{"p", "C", 0.3}}
	same := OwnershipPath{Ownership: Ownership{"p", "C", 0.3}, Hops: nil}
	other := OwnershipPath{Ownership: Ownership{"p", "C", 0.3}, Hops: []Parentship{{"C", "D", 1}}}

	assert.Equal(t, direct.Key(), same.Key())
	assert.NotEqual(t, direct.Key(), other.Key())
}

// --- Share Tests ---

func TestFinalShare(t *testing.T) {
	tests := []struct {
		name string
		path OwnershipPath
		want float64
	}{
		{"direct", OwnershipPath{Ownership: Ownership{"p", "C", 0.3}}, 0.3},
		{"one hop", OwnershipPath{Ownership: Ownership{"p", "B", 0.4}, Hops: []Parentship{{"B", "C", 0.5}}}, 0.4 * 0.5},
		{
			"three hops",
			OwnershipPath{
				Ownership: Ownership{"p", "A", 0.9},
				Hops:      []Parentship{{"B", "C", 0.5}, {"X", "B", 0.8}, {"A", "X", 0.25}},
			},
			0.9 * 0.5 * 0.8 * 0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.path.FinalShare(), 1e-12)
		})
	}
}

func TestFormatShare(t *testing.T) {
	assert.Equal(t, "0.25", FormatShare(0.25))
	assert.Equal(t, "0.0", FormatShare(0))
	assert.Equal(t, "2.0", FormatShare(2))
	assert.Equal(t, "0.0001", FormatShare(0.0001))
	assert.Equal(t, "1e-05", FormatShare(0.00001))
	assert.Equal(t, "2.5e-07", FormatShare(2.5e-7))
	assert.Equal(t, "1e+16", FormatShare(1e16))
	assert.Equal(t, "-0.5", FormatShare(-0.5))
}

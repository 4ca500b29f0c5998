package domain

import (
	"fmt"
	"strings"
)

// keySep separates the components of a composite identity key.
const keySep = "\x1f"

// LinkedCompany is a company reached from a source company through one or
// more shared-owner hops. Two linkages to the same company over different
// hops are distinct values.
type LinkedCompany struct {
	Company string      `json:"company"`
	Via     []SameOwner `json:"via"`
}

// LinkKey serializes the hop sequence.
func (l LinkedCompany) LinkKey() string {
	return joinKeys(l.Via, SameOwner.key)
}

// Key identifies the linkage by company and hop sequence.
func (l LinkedCompany) Key() string {
	return l.Company + keySep + l.LinkKey()
}

func (l LinkedCompany) String() string {
	return l.Company + " via " + joinStrings(l.Via)
}

// Chain is a company reached from a source company by following parentship
// edges in one direction. Hops[0] is the edge touching the source company.
type Chain struct {
	Company string       `json:"company"`
	Hops    []Parentship `json:"hops"`
}

// LinkKey serializes the hop sequence.
func (c Chain) LinkKey() string {
	return joinKeys(c.Hops, Parentship.key)
}

// Key identifies the chain by company and hop sequence.
func (c Chain) Key() string {
	return c.Company + keySep + c.LinkKey()
}

// Depth is the number of hops between the source and Company.
func (c Chain) Depth() int {
	return len(c.Hops)
}

func (c Chain) String() string {
	return c.Company + " via " + joinStrings(c.Hops)
}

// OwnershipPath is a direct ownership followed by zero or more parentship
// hops leading from the owned company to the target.
type OwnershipPath struct {
	Ownership Ownership    `json:"ownership"`
	Hops      []Parentship `json:"hops,omitempty"`
}

// Key identifies the path by its ownership and serialized hops.
func (p OwnershipPath) Key() string {
	return p.Ownership.key() + keySep + joinKeys(p.Hops, Parentship.key)
}

// FinalShare is the product of the ownership share and every hop share.
func (p OwnershipPath) FinalShare() float64 {
	share := p.Ownership.Share
	for _, h := range p.Hops {
		share *= h.Share
	}
	return share
}

func (p OwnershipPath) String() string {
	if len(p.Hops) == 0 {
		return p.Ownership.String()
	}
	return p.Ownership.String() + "," + joinStrings(p.Hops)
}

// ChainedOwnership is one person's aggregate stake in one company, backed by
// the set of paths that contribute to it.
type ChainedOwnership struct {
	Person  string          `json:"person"`
	Company string          `json:"company"`
	Share   float64         `json:"share"`
	Paths   []OwnershipPath `json:"paths"`
}

func (c ChainedOwnership) String() string {
	paths := make([]string, len(c.Paths))
	for i, p := range c.Paths {
		paths[i] = p.String()
	}
	return fmt.Sprintf("%s>%s>%s via %d paths [%s]",
		c.Person, FormatShare(c.Share), c.Company, len(c.Paths), strings.Join(paths, "; "))
}

func joinKeys[T any](hops []T, key func(T) string) string {
	parts := make([]string, len(hops))
	for i, h := range hops {
		parts[i] = key(h)
	}
	return strings.Join(parts, ",")
}

func joinStrings[T fmt.Stringer](hops []T) string {
	parts := make([]string, len(hops))
	for i, h := range hops {
		parts[i] = h.String()
	}
	return strings.Join(parts, ",")
}

// Package domain defines the ownership graph primitives.
// Every type here is an immutable value compared by its fields or by a
// derived key, never by reference.
package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ownership is one person's direct stake in one company.
type Ownership struct {
	Person  string  `json:"person"`
	Company string  `json:"company"`
	Share   float64 `json:"share"`
}

// String renders person>share>company.
func (o Ownership) String() string {
	return o.Person + ">" + FormatShare(o.Share) + ">" + o.Company
}

// key is the full-precision identity used inside composite keys.
func (o Ownership) key() string {
	return o.Person + ">" + exactShare(o.Share) + ">" + o.Company
}

// Parentship is a directed stake of a parent company in a child company.
type Parentship struct {
	Parent string  `json:"parent"`
	Child  string  `json:"child"`
	Share  float64 `json:"share"`
}

// String renders parent>share>child with the share at 3 decimals.
func (p Parentship) String() string {
	return fmt.Sprintf("%s>%.3f>%s", p.Parent, p.Share, p.Child)
}

func (p Parentship) key() string {
	return p.Parent + ">" + exactShare(p.Share) + ">" + p.Child
}

// SameOwner is one hop linking two companies through a person who owns both.
type SameOwner struct {
	Person   string  `json:"person"`
	CompanyA string  `json:"company_a"`
	ShareA   float64 `json:"share_a"`
	CompanyB string  `json:"company_b"`
	ShareB   float64 `json:"share_b"`
}

// String renders companyA<person>companyB.
func (s SameOwner) String() string {
	return s.CompanyA + "<" + s.Person + ">" + s.CompanyB
}

func (s SameOwner) key() string {
	return strings.Join([]string{
		s.CompanyA, exactShare(s.ShareA), s.Person, exactShare(s.ShareB), s.CompanyB,
	}, "|")
}

// FormatShare renders a share in its shortest decimal form. Integral values
// keep a trailing ".0" so 1 prints as 1.0. Magnitudes below 1e-4 or from 1e16
// up switch to exponent form, e.g. 1e-05.
func FormatShare(share float64) string {
	if a := math.Abs(share); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(share, 'g', -1, 64)
	}
	s := strconv.FormatFloat(share, 'f', -1, 64)
	if !strings.ContainsAny(s, ".nN") {
		s += ".0"
	}
	return s
}

func exactShare(share float64) string {
	return strconv.FormatFloat(share, 'g', -1, 64)
}

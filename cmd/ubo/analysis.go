package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joss/ubo/internal/domain"
	"github.com/joss/ubo/internal/render"
	"github.com/joss/ubo/internal/resolve"
)

// ubo resolve [company]
func resolveCmd(a *app) *cobra.Command {
	return newCommand(a, CommandConfig{
		Use:   "resolve [company]",
		Short: "Compute the beneficial owners of a company",
		Long: `Compute every person owning the company directly or through an
ancestor found within --levels parentship hops. Each path contributes
the product of its shares; a person's share is the sum of their paths.
Shares are not capped, so the checksum may exceed 1.`,
		Example: "  ubo resolve C --json",
		Args:    cobra.MaximumNArgs(1),
		Action:  "resolve",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			company, err := a.target(args)
			if err != nil {
				return err
			}
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}

			owners := resolve.BeneficialOwners(company, e.owners, e.parents, a.settings.Levels)
			rep := render.NewReport(company, a.settings.Levels, owners, time.Now())
			a.log.Info("beneficial_owners_resolved", map[string]any{
				"report":      rep.ID,
				"target":      company,
				"owners":      len(owners),
				"total_share": rep.TotalShare,
			})
			return a.emit(rep, func() string { return a.render.Owners(rep) })
		},
	})
}

// analysis is the full picture of one company.
type analysis struct {
	Target       string                 `json:"target"`
	Levels       int                    `json:"levels"`
	Companies    int                    `json:"companies"`
	Owners       []domain.Ownership     `json:"owners"`
	LinkedOneHop []domain.LinkedCompany `json:"linked_one_hop"`
	Linked       []domain.LinkedCompany `json:"linked"`
	Parents      []domain.Parentship    `json:"parents"`
	Children     []domain.Parentship    `json:"children"`
	Ancestors    []domain.Chain         `json:"ancestors"`
	Descendants  []domain.Chain         `json:"descendants"`
	Beneficial   *render.Report         `json:"beneficial_owners"`
}

// ubo analyze [company]
func analyzeCmd(a *app) *cobra.Command {
	return newCommand(a, CommandConfig{
		Use:   "analyze [company]",
		Short: "Run every query against one company",
		Long: `Run owners, linked companies (one hop and multi-level), parents,
children, ancestors, descendants and beneficial owners for one company,
logging a summary event per step and the share checksum at the end.`,
		Args:   cobra.MaximumNArgs(1),
		Action: "analyze",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			company, err := a.target(args)
			if err != nil {
				return err
			}
			a.log.Info("analysis_started", map[string]any{"target": company, "levels": a.settings.Levels})

			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			levels := a.settings.Levels
			a.log.Info("dataset_summary", map[string]any{
				"companies":   e.companies(),
				"ownerships":  e.owners.Len(),
				"parentships": e.parents.Len(),
			})

			res := analysis{Target: company, Levels: levels, Companies: e.companies()}
			step := func(name string, n int) {
				a.log.Info(name, map[string]any{"target": company, "count": n})
			}

			res.Owners = nonNil(e.owners.OwnersOf(company))
			step("owners_found", len(res.Owners))
			res.LinkedOneHop = nonNil(e.owners.LinkedCompaniesOneHop(company))
			step("linked_one_hop_found", len(res.LinkedOneHop))
			res.Linked = nonNil(e.owners.LinkedCompanies(company, levels))
			step("linked_found", len(res.Linked))
			res.Parents = nonNil(e.parents.ParentsOf(company))
			step("parents_found", len(res.Parents))
			res.Children = nonNil(e.parents.ChildrenOf(company))
			step("children_found", len(res.Children))
			res.Ancestors = nonNil(e.parents.AncestorsOf(company, levels))
			step("ancestors_found", len(res.Ancestors))
			res.Descendants = nonNil(e.parents.DescendantsOf(company, levels))
			step("descendants_found", len(res.Descendants))

			owners := resolve.BeneficialOwners(company, e.owners, e.parents, levels)
			res.Beneficial = render.NewReport(company, levels, owners, time.Now())
			step("beneficial_owners_found", len(owners))
			a.log.Info("share_checksum", map[string]any{"target": company, "total_share": res.Beneficial.TotalShare})
			a.log.Info("analysis_completed", map[string]any{"target": company, "report": res.Beneficial.ID})

			return a.emit(res, func() string { return a.renderAnalysis(&res) })
		},
	})
}

func (a *app) renderAnalysis(res *analysis) string {
	r := a.render
	sections := []string{
		fmt.Sprintf("%s: %d companies, levels=%d\n", res.Target, res.Companies, res.Levels),
		r.Ownerships("owners of "+res.Target, res.Owners),
		r.Linked("linked companies of "+res.Target+" (one hop)", res.LinkedOneHop),
		r.Linked("linked companies of "+res.Target, res.Linked),
		r.Parentships("parents of "+res.Target, res.Parents),
		r.Parentships("children of "+res.Target, res.Children),
		r.Chains("ancestors of "+res.Target, res.Ancestors),
		r.Chains("descendants of "+res.Target, res.Descendants),
		r.Owners(res.Beneficial),
	}
	return strings.Join(sections, "\n")
}

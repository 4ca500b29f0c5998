package main

import (
	"github.com/spf13/cobra"

	"github.com/joss/ubo/internal/domain"
)

func queryCmds(a *app) []*cobra.Command {
	return []*cobra.Command{
		ownersCmd(a),
		holdingsCmd(a),
		parentsCmd(a),
		childrenCmd(a),
		linkedCmd(a),
		ancestorsCmd(a),
		descendantsCmd(a),
	}
}

// ubo owners [company]
func ownersCmd(a *app) *cobra.Command {
	return newCommand(a, CommandConfig{
		Use:    "owners [company]",
		Short:  "List the direct owners of a company",
		Args:   cobra.MaximumNArgs(1),
		Action: "owners",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			company, err := a.target(args)
			if err != nil {
				return err
			}
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			owners := e.owners.OwnersOf(company)
			return a.emit(nonNil(owners), func() string {
				return a.render.Ownerships("owners of "+company, owners)
			})
		},
	})
}

// ubo holdings <person>
func holdingsCmd(a *app) *cobra.Command {
	return newCommand(a, CommandConfig{
		Use:    "holdings <person>",
		Short:  "List the companies a person owns directly",
		Args:   cobra.ExactArgs(1),
		Action: "holdings",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			held := e.owners.HoldingsOf(args[0])
			return a.emit(nonNil(held), func() string {
				return a.render.Ownerships("holdings of "+args[0], held)
			})
		},
	})
}

// ubo parents [company]
func parentsCmd(a *app) *cobra.Command {
	return newCommand(a, CommandConfig{
		Use:    "parents [company]",
		Short:  "List the direct parents of a company",
		Args:   cobra.MaximumNArgs(1),
		Action: "parents",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			company, err := a.target(args)
			if err != nil {
				return err
			}
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			parents := e.parents.ParentsOf(company)
			return a.emit(nonNil(parents), func() string {
				return a.render.Parentships("parents of "+company, parents)
			})
		},
	})
}

// ubo children [company]
func childrenCmd(a *app) *cobra.Command {
	return newCommand(a, CommandConfig{
		Use:    "children [company]",
		Short:  "List the direct children of a company",
		Args:   cobra.MaximumNArgs(1),
		Action: "children",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			company, err := a.target(args)
			if err != nil {
				return err
			}
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			children := e.parents.ChildrenOf(company)
			return a.emit(nonNil(children), func() string {
				return a.render.Parentships("children of "+company, children)
			})
		},
	})
}

// ubo linked [company] [--one-hop]
func linkedCmd(a *app) *cobra.Command {
	var oneHop bool

	cmd := newCommand(a, CommandConfig{
		Use:   "linked [company]",
		Short: "List companies sharing owners with a company",
		Long: `List companies reachable from a company through persons who own
both. Without --one-hop the search repeats from every newly found
company up to --levels times; each company is reported at the depth
where it was first found.`,
		Args:   cobra.MaximumNArgs(1),
		Action: "linked",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			company, err := a.target(args)
			if err != nil {
				return err
			}
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}

			var linked []domain.LinkedCompany
			title := "linked companies of " + company
			if oneHop {
				linked = e.owners.LinkedCompaniesOneHop(company)
				title += " (one hop)"
			} else {
				linked = e.owners.LinkedCompanies(company, a.settings.Levels)
			}
			return a.emit(nonNil(linked), func() string {
				return a.render.Linked(title, linked)
			})
		},
	})
	cmd.Flags().BoolVar(&oneHop, "one-hop", false, "Only follow a single shared-owner hop")
	return cmd
}

// ubo ancestors [company]
func ancestorsCmd(a *app) *cobra.Command {
	return newCommand(a, CommandConfig{
		Use:     "ancestors [company]",
		Short:   "List parent companies up to --levels hops away",
		Example: "  ubo ancestors C -l 5",
		Args:    cobra.MaximumNArgs(1),
		Action:  "ancestors",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			company, err := a.target(args)
			if err != nil {
				return err
			}
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			chains := e.parents.AncestorsOf(company, a.settings.Levels)
			return a.emit(nonNil(chains), func() string {
				return a.render.Chains("ancestors of "+company, chains)
			})
		},
	})
}

// ubo descendants [company]
func descendantsCmd(a *app) *cobra.Command {
	return newCommand(a, CommandConfig{
		Use:    "descendants [company]",
		Short:  "List child companies up to --levels hops away",
		Args:   cobra.MaximumNArgs(1),
		Action: "descendants",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			company, err := a.target(args)
			if err != nil {
				return err
			}
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			chains := e.parents.DescendantsOf(company, a.settings.Levels)
			return a.emit(nonNil(chains), func() string {
				return a.render.Chains("descendants of "+company, chains)
			})
		},
	})
}

package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/joss/ubo/internal/domain"
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("205"))

// Renderer formats domain values. Plain mode prints one String() per line
// under a counted title; pretty mode adds color and tree connectors.
type Renderer struct {
	pretty bool
}

// New creates a new renderer.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

func (r *Renderer) title(sb *strings.Builder, format string, args ...any) {
	t := fmt.Sprintf(format, args...)
	if r.pretty {
		sb.WriteString(titleStyle.Render(t) + "\n")
		sb.WriteString(strings.Repeat("─", 60) + "\n")
		return
	}
	sb.WriteString(t + ":\n")
}

func (r *Renderer) share(v float64) string {
	s := domain.FormatShare(v)
	if r.pretty {
		return color.YellowString(s)
	}
	return s
}

// Ownerships formats direct ownership records, e.g. the owners of a company.
func (r *Renderer) Ownerships(title string, items []domain.Ownership) string {
	var sb strings.Builder
	r.title(&sb, "%d %s", len(items), title)
	for _, o := range items {
		if r.pretty {
			fmt.Fprintf(&sb, "  %s %s %s\n", color.CyanString(o.Person), r.share(o.Share), o.Company)
		} else {
			fmt.Fprintf(&sb, "  %s\n", o)
		}
	}
	return sb.String()
}

// Parentships formats direct company-to-company records.
func (r *Renderer) Parentships(title string, items []domain.Parentship) string {
	var sb strings.Builder
	r.title(&sb, "%d %s", len(items), title)
	for _, p := range items {
		if r.pretty {
			fmt.Fprintf(&sb, "  %s %s %s\n", color.CyanString(p.Parent), color.YellowString("%.3f", p.Share), p.Child)
		} else {
			fmt.Fprintf(&sb, "  %s\n", p)
		}
	}
	return sb.String()
}

// Linked formats companies reached through shared owners.
func (r *Renderer) Linked(title string, items []domain.LinkedCompany) string {
	var sb strings.Builder
	r.title(&sb, "%d %s", len(items), title)
	for _, l := range items {
		if !r.pretty {
			fmt.Fprintf(&sb, "  %s\n", l)
			continue
		}
		fmt.Fprintf(&sb, "  %s\n", color.CyanString(l.Company))
		for _, hop := range l.Via {
			fmt.Fprintf(&sb, "    └─ %s\n", hop)
		}
	}
	return sb.String()
}

// Chains formats ancestor or descendant chains.
func (r *Renderer) Chains(title string, items []domain.Chain) string {
	var sb strings.Builder
	r.title(&sb, "%d %s", len(items), title)
	for _, c := range items {
		if !r.pretty {
			fmt.Fprintf(&sb, "  %s\n", c)
			continue
		}
		fmt.Fprintf(&sb, "  %s %s\n", color.CyanString(c.Company), color.HiBlackString("(depth %d)", c.Depth()))
		for _, hop := range c.Hops {
			fmt.Fprintf(&sb, "    └─ %s\n", hop)
		}
	}
	return sb.String()
}

// Owners formats a beneficial owners report with its share checksum.
func (r *Renderer) Owners(rep *Report) string {
	var sb strings.Builder
	r.title(&sb, "%d beneficial owners of %s", len(rep.Owners), rep.Target)
	for _, o := range rep.Owners {
		if !r.pretty {
			fmt.Fprintf(&sb, "  %s\n", o)
			continue
		}
		fmt.Fprintf(&sb, "  %s %s %s\n", color.CyanString(o.Person), r.share(o.Share), color.HiBlackString("(%d paths)", len(o.Paths)))
		for _, p := range o.Paths {
			fmt.Fprintf(&sb, "    └─ %s\n", p)
		}
	}
	fmt.Fprintf(&sb, "checksum of shares: %s\n", r.share(rep.TotalShare))
	return sb.String()
}

// Stats formats dataset and index sizes.
func (r *Renderer) Stats(st Stats) string {
	var sb strings.Builder
	r.title(&sb, "ubo stats (%s)", st.Source)
	rows := []struct {
		label string
		value int
	}{
		{"ownerships", st.Ownerships},
		{"persons", st.Persons},
		{"owned companies", st.OwnedCompanies},
		{"parentships", st.Parentships},
		{"group companies", st.GroupCompanies},
	}
	for _, row := range rows {
		if r.pretty {
			fmt.Fprintf(&sb, "  %-16s %s\n", row.label+":", color.GreenString("%d", row.value))
		} else {
			fmt.Fprintf(&sb, "  %s=%d\n", strings.ReplaceAll(row.label, " ", "_"), row.value)
		}
	}
	return sb.String()
}

// Stats are the sizes reported by the stats command.
type Stats struct {
	Source         string `json:"source"`
	Ownerships     int    `json:"ownerships"`
	Persons        int    `json:"persons"`
	OwnedCompanies int    `json:"owned_companies"`
	Parentships    int    `json:"parentships"`
	GroupCompanies int    `json:"group_companies"`
}

package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joss/ubo/internal/domain"
	"github.com/joss/ubo/internal/resolve"
)

// Report is one beneficial-owner resolution run.
type Report struct {
	ID          string                    `json:"id"`
	Target      string                    `json:"target"`
	Levels      int                       `json:"levels"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Owners      []domain.ChainedOwnership `json:"-"`
	TotalShare  float64                   `json:"total_share"`
}

// NewReport stamps owners with a run id and their share checksum.
func NewReport(target string, levels int, owners []domain.ChainedOwnership, now time.Time) *Report {
	return &Report{
		ID:          ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Target:      target,
		Levels:      levels,
		GeneratedAt: now.UTC(),
		Owners:      owners,
		TotalShare:  resolve.TotalShare(owners),
	}
}

type ownerJSON struct {
	Person string     `json:"person"`
	Share  float64    `json:"share"`
	Paths  []pathJSON `json:"paths"`
}

type pathJSON struct {
	Path  string  `json:"path"`
	Share float64 `json:"share"`
}

// MarshalJSON flattens owners and their paths to display strings.
func (r *Report) MarshalJSON() ([]byte, error) {
	type plain Report
	owners := make([]ownerJSON, len(r.Owners))
	for i, o := range r.Owners {
		paths := make([]pathJSON, len(o.Paths))
		for j, p := range o.Paths {
			paths[j] = pathJSON{Path: p.String(), Share: p.FinalShare()}
		}
		owners[i] = ownerJSON{Person: o.Person, Share: o.Share, Paths: paths}
	}
	return json.Marshal(struct {
		*plain
		Owners []ownerJSON `json:"owners"`
	}{(*plain)(r), owners})
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

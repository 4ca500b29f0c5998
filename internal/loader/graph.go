package loader

import (
	"context"
	"fmt"

	"github.com/joss/ubo/internal/domain"
	"github.com/joss/ubo/internal/graph"
)

// Cypher used against the ownership graph:
// (:Person)-[:OWNS {share}]->(:Company) and
// (:Company)-[:PARENT_OF {share}]->(:Company).
const (
	queryOwnerships = `
MATCH (p:Person)-[r:OWNS]->(c:Company)
RETURN p.id AS person, c.id AS company, r.share AS share`

	queryParentships = `
MATCH (a:Company)-[r:PARENT_OF]->(b:Company)
RETURN a.id AS c1, b.id AS c2, r.share AS share`

	mergeOwnerships = `
UNWIND $rows AS row
MERGE (p:Person {id: row.person})
MERGE (c:Company {id: row.company})
CREATE (p)-[:OWNS {share: row.share}]->(c)`

	mergeParentships = `
UNWIND $rows AS row
MERGE (a:Company {id: row.c1})
MERGE (b:Company {id: row.c2})
CREATE (a)-[:PARENT_OF {share: row.share}]->(b)`

	clearRelations = `
MATCH ()-[r:OWNS|PARENT_OF]->()
DELETE r`
)

// saveBatch bounds the rows sent per UNWIND.
const saveBatch = 1000

// GraphSource reads and writes records in Memgraph or Neo4j.
type GraphSource struct {
	driver graph.Driver
	uri    string
}

var (
	_ Source = (*GraphSource)(nil)
	_ Saver  = (*GraphSource)(nil)
)

// NewGraphSource wraps a connected driver.
func NewGraphSource(driver graph.Driver, uri string) *GraphSource {
	return &GraphSource{driver: driver, uri: uri}
}

func (s *GraphSource) Name() string { return "memgraph:" + s.uri }

// Close closes the underlying driver.
func (s *GraphSource) Close() error {
	return s.driver.Close()
}

// Load reads both relationship types.
func (s *GraphSource) Load(ctx context.Context) (*Dataset, error) {
	return loadBoth(ctx, s.Name(), s.ownerships, s.parentships)
}

func (s *GraphSource) ownerships(ctx context.Context) ([]domain.Ownership, error) {
	recs, err := s.driver.Execute(ctx, queryOwnerships, nil)
	if err != nil {
		return nil, fmt.Errorf("load ownerships: %w", err)
	}
	out := make([]domain.Ownership, 0, len(recs))
	for i, r := range recs {
		o, err := OwnershipRecord{
			Person:  graph.GetString(r, "person"),
			Company: graph.GetString(r, "company"),
			Share:   graph.GetFloat(r, "share"),
		}.toDomain()
		if err != nil {
			return nil, &RecordError{Source: "OWNS", Line: i + 1, Err: err}
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *GraphSource) parentships(ctx context.Context) ([]domain.Parentship, error) {
	recs, err := s.driver.Execute(ctx, queryParentships, nil)
	if err != nil {
		return nil, fmt.Errorf("load parentships: %w", err)
	}
	out := make([]domain.Parentship, 0, len(recs))
	for i, r := range recs {
		p, err := ParentshipRecord{
			C1:    graph.GetString(r, "c1"),
			C2:    graph.GetString(r, "c2"),
			Share: graph.GetFloat(r, "share"),
		}.toDomain()
		if err != nil {
			return nil, &RecordError{Source: "PARENT_OF", Line: i + 1, Err: err}
		}
		out = append(out, p)
	}
	return out, nil
}

// Save replaces every OWNS and PARENT_OF relationship with those in ds.
// Nodes are merged by id and left in place. The clear and every batch run in
// one transaction, so a failed save leaves the graph as it was.
func (s *GraphSource) Save(ctx context.Context, ds *Dataset) error {
	own := make([]map[string]any, len(ds.Ownerships))
	for i, o := range ds.Ownerships {
		own[i] = map[string]any{"person": o.Person, "company": o.Company, "share": o.Share}
	}
	par := make([]map[string]any, len(ds.Parentships))
	for i, p := range ds.Parentships {
		par[i] = map[string]any{"c1": p.Parent, "c2": p.Child, "share": p.Share}
	}

	stmts := []graph.Statement{{Query: clearRelations}}
	stmts = appendBatches(stmts, mergeOwnerships, own)
	stmts = appendBatches(stmts, mergeParentships, par)

	if err := s.driver.ExecuteTx(ctx, stmts); err != nil {
		return fmt.Errorf("save graph: %w", err)
	}
	return nil
}

// appendBatches splits rows into UNWIND statements of at most saveBatch rows.
func appendBatches(stmts []graph.Statement, query string, rows []map[string]any) []graph.Statement {
	for start := 0; start < len(rows); start += saveBatch {
		end := min(start+saveBatch, len(rows))
		batch := make([]any, end-start)
		for i, r := range rows[start:end] {
			batch[i] = r
		}
		stmts = append(stmts, graph.Statement{Query: query, Params: map[string]any{"rows": batch}})
	}
	return stmts
}

package domain_test

import (
	"errors"
	"strings"
	"testing"

	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/core/domain"
)

func TestGraphAddDeduplicates(t *testing.T) {
	g := domain.NewGraph()

	first := domain.NewTaskRequirement("x.out", "cp x.in x.out", false)
	second := domain.NewTaskRequirement("other-name", "cp x.in x.out", false)

	if got := g.Add(first); got != first {
		t.Fatalf("Expected first insert to return its own node, got %v", got)
	}
	// Identical recipes share identity, so the first node stays canonical
	if got := g.Add(second); got != first {
		t.Errorf("Expected duplicate insert to return the canonical node, got %v", got)
	}
	if g.Len() != 1 {
		t.Errorf("Expected 1 node after duplicate insert, got %d", g.Len())
	}
}

func TestGraphEdgesAreDedupedAndOrdered(t *testing.T) {
	g := domain.NewGraph()

	app := g.Add(domain.NewTaskRequirement("app", "link app", false))
	mainO := g.Add(domain.NewTaskRequirement("main.o", "cc main.o", false))
	utilO := g.Add(domain.NewTaskRequirement("util.o", "cc util.o", false))

	g.AddEdge(app.Key(), mainO.Key())
	g.AddEdge(app.Key(), utilO.Key())
	g.AddEdge(app.Key(), mainO.Key())

	preqs := g.Prerequisites(app.Key())
	if len(preqs) != 2 {
		t.Fatalf("Expected 2 prerequisites after dedup, got %d", len(preqs))
	}
	if preqs[0] != mainO || preqs[1] != utilO {
		t.Errorf("Expected prerequisites in insertion order, got %q then %q", preqs[0].Target, preqs[1].Target)
	}
}

func TestGraphValidateAcyclic(t *testing.T) {
	g := domain.NewGraph()

	all := g.Add(domain.NewAggregateRequirement("all", false))
	x := g.Add(domain.NewTaskRequirement("x.out", "cp x.in x.out", false))
	y := g.Add(domain.NewTaskRequirement("y.out", "cp y.in y.out", false))
	in := g.Add(domain.NewFileRequirement("x.in"))

	g.AddEdge(all.Key(), x.Key())
	g.AddEdge(all.Key(), y.Key())
	g.AddEdge(x.Key(), in.Key())
	g.SetRoot(all.Key())

	if err := g.Validate(); err != nil {
		t.Fatalf("Expected no error for acyclic graph, got %v", err)
	}
	if g.Root() != all {
		t.Errorf("Expected root to be %q, got %v", all.Target, g.Root())
	}
}

func TestGraphValidateReportsCyclePath(t *testing.T) {
	g := domain.NewGraph()

	a := g.Add(domain.NewTaskRequirement("a", "build a", false))
	b := g.Add(domain.NewTaskRequirement("b", "build b", false))
	c := g.Add(domain.NewTaskRequirement("c", "build c", false))

	g.AddEdge(a.Key(), b.Key())
	g.AddEdge(b.Key(), c.Key())
	g.AddEdge(c.Key(), a.Key())

	err := g.Validate()
	if err == nil {
		t.Fatal("Expected cycle error, got nil")
	}
	if !errors.Is(err, domain.ErrCycleDetected) {
		t.Fatalf("Expected ErrCycleDetected, got %v", err)
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("Expected *zerr.Error, got %T", err)
	}
	meta := zErr.Metadata()
	cycle, ok := meta["cycle"].(string)
	if !ok {
		t.Fatal("Expected cycle metadata on error")
	}
	for _, name := range []string{"a", "b", "c"} {
		if !strings.Contains(cycle, name) {
			t.Errorf("Expected cycle path to mention %q, got %q", name, cycle)
		}
	}
	if !strings.Contains(cycle, " -> ") {
		t.Errorf("Expected cycle path with arrow separators, got %q", cycle)
	}
}

func TestGraphEdgesStableOrder(t *testing.T) {
	build := func() []domain.Edge {
		g := domain.NewGraph()
		all := g.Add(domain.NewAggregateRequirement("all", false))
		x := g.Add(domain.NewTaskRequirement("x.out", "cp x.in x.out", false))
		y := g.Add(domain.NewTaskRequirement("y.out", "cp y.in y.out", false))
		g.AddEdge(all.Key(), x.Key())
		g.AddEdge(all.Key(), y.Key())
		g.AddEdge(x.Key(), g.Add(domain.NewFileRequirement("x.in")).Key())
		return g.Edges()
	}

	first := build()
	second := build()

	if len(first) != 3 {
		t.Fatalf("Expected 3 edges, got %d", len(first))
	}
	for i := range first {
		if first[i].From.Target != second[i].From.Target || first[i].To.Target != second[i].To.Target {
			t.Errorf("Expected stable edge order at index %d, got %q->%q vs %q->%q",
				i, first[i].From.Target, first[i].To.Target, second[i].From.Target, second[i].To.Target)
		}
	}
}

// Package dot renders a resolved graph and its plan in Graphviz DOT format.
// The output is deterministic: nodes and edges follow the graph's stable
// iteration order, clusters follow wave order.
package dot

import (
	"fmt"
	"io"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/core/domain"
)

// ErrNilWriter indicates that a nil writer was provided to Export.
var ErrNilWriter = zerr.New("nil writer")

// Export writes the dependency graph as a digraph. Edges point from a
// requirement to its prerequisites. When plan is non-nil, scheduled
// requirements are grouped into one cluster per wave in execution order, so
// the rendering shows both structure and schedule. Skipped requirements keep
// their node but join no cluster.
func Export(w io.Writer, g *domain.Graph, plan *domain.Plan) error {
	if w == nil {
		return ErrNilWriter
	}

	var b strings.Builder
	b.WriteString("digraph mk {\n")
	b.WriteString("    rankdir=BT;\n")

	for req := range g.Requirements() {
		fmt.Fprintf(&b, "    %s [label=%s shape=%s];\n", quote(req.Key().String()), quote(req.Target), shape(req))
	}

	if plan != nil {
		wave := 0
		for _, members := range plan.Waves {
			if len(members) == 0 {
				continue
			}
			fmt.Fprintf(&b, "    subgraph cluster_%d {\n", wave)
			fmt.Fprintf(&b, "        label=%s;\n", quote(fmt.Sprintf("wave %d", wave)))
			for _, req := range members {
				fmt.Fprintf(&b, "        %s;\n", quote(req.Key().String()))
			}
			b.WriteString("    }\n")
			wave++
		}
	}

	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "    %s -> %s;\n", quote(e.From.Key().String()), quote(e.To.Key().String()))
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func shape(req *domain.Requirement) string {
	switch req.Kind {
	case domain.KindTask:
		return "box"
	case domain.KindAggregate:
		return "diamond"
	default:
		return "ellipse"
	}
}

func quote(name string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range name {
		switch r {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

package lib

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/xerrors"

	"github.com/muveraai/conclave/verify"
)

// WriteDot writes the reached joint state space as a graphviz dot graph.
// Every node is one joint state, labelled with the component states, and
// every edge carries the action that moves the composition along it. Joint
// states that enable no action are drawn in red.
func WriteDot(w io.Writer, ss *verify.StateSpace) error {
	var sb strings.Builder

	sb.WriteString("digraph composition {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=circle];\n")
	if ss.Truncated() {
		sb.WriteString("  label=\"explored prefix only, the state bound was reached\";\n")
	}
	sb.WriteString("\n")

	sb.WriteString("  start [shape=point];\n")
	sb.WriteString(fmt.Sprintf("  start -> \"%s\";\n", nodeName(ss, 0)))
	sb.WriteString("\n")

	for i := 0; i < ss.Len(); i++ {
		attrs := fmt.Sprintf("label=\"%s\"", strings.Join(ss.StateNames(i), "\\n"))
		if len(ss.Enabled(i)) == 0 {
			attrs += " color=red"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\" [%s];\n", nodeName(ss, i), attrs))
	}
	sb.WriteString("\n")

	comp := ss.Composer()
	for i := 0; i < ss.Len(); i++ {
		for _, m := range comp.Expand(ss.Joint(i)) {
			j, ok := ss.Index(m.To)
			if !ok {
				// The target fell beyond the state bound.
				continue
			}
			sb.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [label=\"%s\"];\n",
				nodeName(ss, i), nodeName(ss, j), m.Action))
		}
	}
	sb.WriteString("}\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return xerrors.Errorf("couldn't write graph: %v", err)
	}
	return nil
}

func nodeName(ss *verify.StateSpace, i int) string {
	return strings.Join(ss.StateNames(i), ",")
}

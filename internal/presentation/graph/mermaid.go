// Package graph renders phenotype topologies as Mermaid flowcharts for
// documentation and the describe/graph CLI commands.
package graph

import (
	"fmt"
	"strings"

	"github.com/phenogo/phenogo/pkg/domain"
)

// Overlay marks dynamic state on the rendered graph.
type Overlay struct {
	CurrentPhase string
}

// GenerateMermaid produces Mermaid flowchart syntax for a phenotype.
// Shapes carry the phase semantics:
//   - starting phase: ((circle))
//   - divides at exit: [[subroutine]]
//   - removes at exit: [/parallelogram/]
//   - default: [rectangle]
//
// Edges are labeled with the transition rule; the quiescent phase hangs off
// the graph with a dotted edge since any phase can fall into it.
func GenerateMermaid(spec domain.PhenotypeSpec, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	start := spec.Start
	if start == "" && len(spec.Phases) > 0 {
		start = spec.Phases[0].ID
	}

	for _, phase := range spec.Phases {
		sb.WriteString(nodeLine(phase, phase.ID == start))
		sb.WriteString(edgeLine(phase, "-->"))
	}

	if q := spec.Quiescent; q != nil {
		sb.WriteString(nodeLine(*q, false))
		sb.WriteString(edgeLine(*q, "-.->"))
	}

	if overlay != nil && overlay.CurrentPhase != "" {
		sb.WriteString("\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeID(overlay.CurrentPhase)))
	}

	return sb.String()
}

func nodeLine(phase domain.PhaseSpec, isStart bool) string {
	opener, closer := "[", "]"
	switch {
	case isStart:
		opener, closer = "((", "))"
	case phase.DividesAtExit:
		opener, closer = "[[", "]]"
	case phase.RemovesAtExit:
		opener, closer = "[/", "/]"
	}
	return fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeID(phase.ID), opener, phase.ID, closer)
}

func edgeLine(phase domain.PhaseSpec, arrow string) string {
	to := phase.Next
	if phase.NextFunc != nil && to == "" {
		// Runtime-resolved successor: render a self-referencing marker so
		// the branch point is still visible.
		to = phase.ID
	}
	if to == "" {
		return ""
	}
	label := ""
	if phase.Rule != nil {
		label = strings.ReplaceAll(phase.Rule.Describe(), "\"", "'")
	}
	if label != "" {
		if arrow == "-.->" {
			return fmt.Sprintf("    %s -. \"%s\" .-> %s\n", sanitizeID(phase.ID), label, sanitizeID(to))
		}
		return fmt.Sprintf("    %s -- \"%s\" --> %s\n", sanitizeID(phase.ID), label, sanitizeID(to))
	}
	return fmt.Sprintf("    %s %s %s\n", sanitizeID(phase.ID), arrow, sanitizeID(to))
}

func sanitizeID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}

package visualize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Output is a rendered visualization.
type Output struct {
	Format       string     `json:"format"`
	Diagram      string     `json:"diagram"`
	Instructions string     `json:"instructions"`
	Metadata     Statistics `json:"metadata"`
	DebugInfo    *DebugInfo `json:"debugInfo,omitempty"`
}

// Render produces the diagram for the requested format. Dispatch is a
// closed switch over the Format tag; ParseFormat already rejected
// anything else.
func Render(snap Snapshot, format Format) Output {
	out := Output{
		Format:   format.String(),
		Metadata: snap.Statistics,
	}

	switch format {
	case FormatMermaid:
		out.Diagram = renderMermaid(snap)
		out.Instructions = "Paste into a mermaid renderer (e.g. mermaid.live) or a markdown file with mermaid support."
	case FormatGraphviz:
		out.Diagram = renderGraphviz(snap)
		out.Instructions = "Render with: dot -Tsvg graph.dot -o graph.svg"
	case FormatJSON:
		debug := buildDebugInfo(snap)
		out.DebugInfo = &debug
		out.Diagram = renderJSON(snap, debug)
		out.Instructions = "Machine-readable graph dump; feed to jq or downstream tooling."
	case FormatASCII:
		out.Diagram = renderASCII(snap)
		out.Instructions = "Plain-text rendering; criteria grouped by strict dependency depth."
	}

	return out
}

func renderMermaid(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	for _, n := range snap.Nodes {
		fmt.Fprintf(&b, "    %s[%q]\n", mermaidID(n.ID), n.ID)
	}
	b.WriteString("\n")

	for _, e := range snap.Edges {
		switch e.Type {
		case "strict":
			fmt.Fprintf(&b, "    %s --> %s\n", mermaidID(e.To), mermaidID(e.From))
		case "weak":
			fmt.Fprintf(&b, "    %s -.-> %s\n", mermaidID(e.To), mermaidID(e.From))
		default:
			fmt.Fprintf(&b, "    %s -.- %s\n", mermaidID(e.To), mermaidID(e.From))
		}
	}

	b.WriteString("\n")
	b.WriteString("    classDef strict stroke:#e74c3c,stroke-width:2px;\n")
	b.WriteString("    classDef weak stroke:#f39c12,stroke-dasharray: 5 5;\n")
	return b.String()
}

// mermaidID strips characters mermaid treats as syntax.
func mermaidID(id string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(id)
}

func renderGraphviz(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("digraph criteria {\n")
	b.WriteString("    rankdir=TB;\n")
	b.WriteString("    node [shape=box, style=rounded];\n\n")

	for _, n := range snap.Nodes {
		fmt.Fprintf(&b, "    %q;\n", n.ID)
	}
	b.WriteString("\n")

	for _, e := range snap.Edges {
		switch e.Type {
		case "strict":
			fmt.Fprintf(&b, "    %q -> %q;\n", e.To, e.From)
		case "weak":
			fmt.Fprintf(&b, "    %q -> %q [style=dashed];\n", e.To, e.From)
		default:
			fmt.Fprintf(&b, "    %q -> %q [style=dotted, arrowhead=none];\n", e.To, e.From)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func renderJSON(snap Snapshot, debug DebugInfo) string {
	payload := struct {
		Snapshot
		DebugInfo DebugInfo `json:"debugInfo"`
	}{Snapshot: snap, DebugInfo: debug}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func renderASCII(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("Criteria Dependency Graph\n")
	b.WriteString("=========================\n\n")

	for i, level := range snap.Levels {
		fmt.Fprintf(&b, "Level %d: %s\n", i, strings.Join(level, ", "))
	}

	b.WriteString("\nLegend:\n")
	b.WriteString("  Level 0 criteria have no strict dependencies.\n")
	b.WriteString("  Each level depends only on criteria in earlier levels.\n")
	fmt.Fprintf(&b, "  %d criteria, %d dependencies, %d levels.\n",
		snap.Statistics.NodeCount, snap.Statistics.EdgeCount, snap.Statistics.LevelCount)
	return b.String()
}

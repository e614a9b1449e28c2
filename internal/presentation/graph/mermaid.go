package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/game"
)

// Overlay contains session data to highlight on the diagram.
type Overlay struct {
	Visited []domain.SessionState
	Current domain.SessionState
}

// GenerateMermaid produces a Mermaid flowchart of the session state machine.
// Shapes:
// - Idle: ((Circle))
// - Finished/Failed: (((Double circle)))
// - States waiting on the player: [/Parallelogram/]
// - Default: [Rectangle]
// Edges into Failed are dotted. Self loops are labelled with the command that repeats them.
func GenerateMermaid(edges []game.Edge, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	seen := make(map[domain.SessionState]bool)
	declare := func(s domain.SessionState) {
		if seen[s] {
			return
		}
		seen[s] = true
		opener, closer := "[", "]"
		switch {
		case s == domain.StateIdle:
			opener, closer = "((", "))"
		case s.IsTerminal():
			opener, closer = "(((", ")))"
		case s == domain.StateModeSelection || s == domain.StatePlaying:
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(s), opener, s, closer)
	}

	for _, e := range edges {
		declare(e.From)
		declare(e.To)
	}
	for _, e := range edges {
		arrow := "-->"
		switch {
		case e.To == domain.StateFailed:
			arrow = "-.->"
		case e.From == e.To && e.From == domain.StatePlaying:
			arrow = `-- "Move" -->`
		case e.From == e.To && e.From == domain.StateAutoplayWatching:
			arrow = `-- "GetGameState" -->`
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(e.From), arrow, nodeID(e.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		styled := make(map[domain.SessionState]bool)
		for _, s := range overlay.Visited {
			if s == "" || styled[s] || s == overlay.Current {
				continue
			}
			styled[s] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(s))
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.Current))
		}
	}

	return sb.String()
}

func nodeID(s domain.SessionState) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(string(s))
}

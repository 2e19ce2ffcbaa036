package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/ccprov/internal/store"
)

// Palette shared by all text reports.
var (
	colorAccent  = lipgloss.Color("#874BFD") // headers, bars
	colorOK      = lipgloss.Color("#00FF99") // durations
	colorDanger  = lipgloss.Color("#FF0055") // failed compiles
	colorSubtext = lipgloss.Color("#64748B") // secondary detail

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	durationStyle = lipgloss.NewStyle().Bold(true).Foreground(colorOK)
	failStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorDanger)
	subtle        = lipgloss.NewStyle().Foreground(colorSubtext)
	barStyle      = lipgloss.NewStyle().Foreground(colorAccent)
)

const emptyNotice = "no build commands recorded"

// RenderSlowest renders the top-N listing, heaviest first. Records whose
// input could not be classified fall back to the recorded command line.
func RenderSlowest(cmds []store.BuildCommand) string {
	if len(cmds) == 0 {
		return subtle.Render(emptyNotice) + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Slowest compiles") + "\n")
	for i, c := range cmds {
		name := c.InputFileName
		if name == "" {
			name = subtle.Render("(unclassified)") + "  " + c.Command
		}
		// Pad before styling so ANSI codes never skew the columns.
		dur := durationStyle.Render(fmt.Sprintf("%9.3fs", c.Duration))
		line := fmt.Sprintf("%3d. %s  %s", i+1, dur, name)
		if c.ExitCode != 0 {
			line += "  " + failStyle.Render(fmt.Sprintf("[exit %d]", c.ExitCode))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderCommands renders the full record listing for one source file,
// oldest first, one block per invocation.
func RenderCommands(cmds []store.BuildCommand) string {
	if len(cmds) == 0 {
		return subtle.Render(emptyNotice) + "\n"
	}

	var b strings.Builder
	for i, c := range cmds {
		if i > 0 {
			b.WriteString("\n")
		}

		name := c.InputFileName
		if name == "" {
			name = "(unclassified)"
		}
		title := fmt.Sprintf("#%d  %s", c.ID, name)
		if c.OutputFileName != "" {
			title += " -> " + c.OutputFileName
		}
		b.WriteString(headerStyle.Render(title) + "\n")

		exit := fmt.Sprintf("exit %d", c.ExitCode)
		if c.ExitCode != 0 {
			exit = failStyle.Render(exit)
		}
		meta := []string{}
		if c.Cwd != "" {
			meta = append(meta, "cwd "+c.Cwd)
		}
		meta = append(meta, exit, durationStyle.Render(fmt.Sprintf("%.3fs", c.Duration)))
		b.WriteString("    " + strings.Join(meta, "  ") + "\n")
		b.WriteString("    " + subtle.Render(c.Command) + "\n")
	}
	return b.String()
}

// RenderTree renders the duration-weighted directory tree. Bars scale
// against the root total, so nested rows read as share-of-build.
func RenderTree(root *DirNode) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Compile time by directory") + "\n")
	renderNode(&b, root, 0, root.Duration)
	return b.String()
}

func renderNode(b *strings.Builder, n *DirNode, indent int, total float64) {
	label := n.Name
	records := "record"
	if n.Count != 1 {
		records = "records"
	}
	fmt.Fprintf(b, "%s%s %s  %s  %s\n",
		strings.Repeat("  ", indent),
		barStyle.Render(durationBar(n.Duration, total)),
		durationStyle.Render(fmt.Sprintf("%9.3fs", n.Duration)),
		label,
		subtle.Render(fmt.Sprintf("(%d %s)", n.Count, records)),
	)
	for _, c := range n.Children {
		renderNode(b, c, indent+1, total)
	}
}

const barWidth = 20

// durationBar returns a fixed-width share bar. Any nonzero share shows
// at least one filled cell.
func durationBar(d, total float64) string {
	filled := 0
	if total > 0 {
		filled = int(d / total * barWidth)
		if filled == 0 && d > 0 {
			filled = 1
		}
		if filled > barWidth {
			filled = barWidth
		}
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

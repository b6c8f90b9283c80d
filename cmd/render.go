package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agentic-research/shortcuts/api"
	"github.com/agentic-research/shortcuts/internal/ingest"
	"github.com/agentic-research/shortcuts/internal/nodes"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	folderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	targetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Italic(true)
)

func renderError(err error) string {
	return errorStyle.Render("✗ " + err.Error())
}

func mediaType(d *api.Descriptor) string {
	if !d.HasMediaType {
		return ""
	}
	return d.MediaType
}

// renderNodes renders a node set as a table in ordinal order, followed by
// a line per skipped view and a count per skip reason.
func renderNodes(set *nodes.Set) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ORDER", "ORIGINAL", "KIND", "LABEL", "TARGET", "MEDIA")
	for _, d := range set.Descriptors() {
		ordinal := strconv.Itoa(d.Ordinal)
		if !d.Ordered() {
			ordinal = hintStyle.Render(ordinal)
		}
		t.Row(ordinal, d.OriginalOrdinal, d.Kind.String(), d.Label, d.Target, mediaType(d))
	}

	var sb strings.Builder
	sb.WriteString(t.String())
	sb.WriteString("\n")
	for _, sk := range set.Skipped() {
		line := fmt.Sprintf("skipped %s (%s)", sk.Path, sk.Reason)
		if sk.Err != nil {
			line += ": " + sk.Err.Error()
		}
		sb.WriteString(hintStyle.Render(line))
		sb.WriteString("\n")
	}
	if by := set.SkippedBy(); len(by) > 0 {
		reasons := make([]string, 0, len(by))
		for reason, n := range by {
			reasons = append(reasons, fmt.Sprintf("%s=%d", reason, n))
		}
		sort.Strings(reasons)
		sb.WriteString(hintStyle.Render("skipped: " + strings.Join(reasons, " ")))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderTree(tree *ingest.Tree) string {
	var sb strings.Builder
	tree.Walk(func(depth int, d *api.Descriptor) {
		label := d.Label
		if d.Kind == api.KindFolder {
			label = folderStyle.Render(label + "/")
		}
		fmt.Fprintf(&sb, "%s%s %s\n", strings.Repeat("  ", depth), label, targetStyle.Render(d.Target))
	})
	return sb.String()
}

func renderRecords(records []api.Record) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("GROUP", "LABEL ID", "PROPERTY", "VALUE")
	for _, r := range records {
		v := "<unset>"
		if r.Value != nil {
			v = *r.Value
		}
		t.Row(r.Group, r.LabelID, r.Property, v)
	}
	return t.String() + "\n"
}

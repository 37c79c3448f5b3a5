package tagcatalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disiqueira/gotree/v3"
	"github.com/rodaine/table"
)

var (
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	addStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	removeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00"))
)

func newTable(w io.Writer, headers ...interface{}) table.Table {
	tbl := table.New(headers...)
	tbl.WithFirstColumnFormatter(func(format string, vals ...interface{}) string {
		return boldStyle.Render(fmt.Sprintf(format, vals...))
	})
	tbl.WithPadding(2)
	tbl.WithWidthFunc(lipgloss.Width)
	tbl.WithWriter(w)
	return tbl
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// styleRef highlights invalid reference labels produced for dangling ids.
func styleRef(s string) string {
	if strings.HasPrefix(s, "<invalid ") {
		return invalidStyle.Render(s)
	}
	return s
}

func styleRefs(names []string) string {
	styled := make([]string, len(names))
	for i, n := range names {
		styled[i] = styleRef(n)
	}
	return strings.Join(styled, ", ")
}

func printEntries(w io.Writer, entries []EntryInfo) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, dimStyle.Render("No matching entries"))
		return
	}
	tbl := newTable(w, "ID", "PATH", "TAGS")
	for _, e := range entries {
		tbl.AddRow(e.ID, styleRef(e.Path), styleRefs(e.Tags))
	}
	tbl.Print()
}

func printTags(w io.Writer, tags []TagInfo) {
	if len(tags) == 0 {
		_, _ = fmt.Fprintln(w, dimStyle.Render("No tags"))
		return
	}
	tbl := newTable(w, "ID", "NAME", "ALIASES", "IMPLIES", "COUNT", "APP")
	for _, t := range tags {
		name, aliases := "", []string(nil)
		if len(t.Names) > 0 {
			name, aliases = t.Names[0], t.Names[1:]
		}
		tbl.AddRow(t.ID, name, strings.Join(aliases, ", "), styleRefs(t.Implies), t.Count, t.App)
	}
	tbl.Print()
}

func printSequences(w io.Writer, seqs []SequenceInfo) {
	if len(seqs) == 0 {
		_, _ = fmt.Fprintln(w, dimStyle.Render("No sequences"))
		return
	}
	tbl := newTable(w, "ID", "NAME", "ENTRIES")
	for _, s := range seqs {
		tbl.AddRow(s.ID, styleRef(s.Name), len(s.Entries))
	}
	tbl.Print()
}

func printSequence(w io.Writer, seq SequenceInfo) {
	_, _ = fmt.Fprintf(w, "%s (%d)\n", boldStyle.Render(styleRef(seq.Name)), seq.ID)
	tbl := newTable(w, "#", "PATH")
	for i, p := range seq.Entries {
		tbl.AddRow(i, styleRef(p))
	}
	tbl.Print()
}

func printCollections(w io.Writer, colls []CollectionInfo) {
	if len(colls) == 0 {
		_, _ = fmt.Fprintln(w, dimStyle.Render("No collections, run init first"))
		return
	}
	tbl := newTable(w, "ID", "ROOT", "RECENT")
	for _, c := range colls {
		recent := ""
		if c.Recent {
			recent = "*"
		}
		tbl.AddRow(c.ID, c.Root, recent)
	}
	tbl.Print()
}

func printChanges(w io.Writer, changes ChangeSet) {
	if changes.Empty() {
		_, _ = fmt.Fprintln(w, dimStyle.Render("Catalog is up to date"))
		return
	}
	for _, p := range changes.Add {
		_, _ = fmt.Fprintln(w, addStyle.Render("+ "+p))
	}
	for _, p := range changes.Remove {
		_, _ = fmt.Fprintln(w, removeStyle.Render("- "+p))
	}
	_, _ = fmt.Fprintf(w, "%d to add, %d to remove\n", len(changes.Add), len(changes.Remove))
}

// renderImplicationTree draws every tag with the tags it implies below it.
// Branches stop at cycles and at the implication depth limit.
func renderImplicationTree(cat *Catalog, roots []TagID) string {
	tree := gotree.New("tags")
	for _, id := range roots {
		addImplications(cat, tree, id, map[TagID]bool{}, 0)
	}
	return tree.Print()
}

func addImplications(cat *Catalog, parent gotree.Tree, id TagID, path map[TagID]bool, depth int) {
	name, _ := cat.TagDisplayName(id)
	if path[id] {
		parent.Add(dimStyle.Render(name + " (cycle)"))
		return
	}
	node := parent.Add(styleRef(name))
	tag, ok := cat.Tags[id]
	if !ok || depth >= MaxImplicationDepth {
		return
	}
	path[id] = true
	for _, implied := range tag.Implies.Sorted() {
		addImplications(cat, node, implied, path, depth+1)
	}
	delete(path, id)
}

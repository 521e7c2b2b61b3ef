package report

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/ciprobe/sym"
)

// Console renders a short digest for the terminal: a counts table followed by
// the tasks that need attention.
func Console(in Input) (string, error) {
	g := in.glyphs()
	ti := in.Issues

	data := pterm.TableData{
		{"", "Count"},
		{g.G(sym.Building) + " Repositories analyzed", fmt.Sprint(len(ti.Analyzed()))},
		{g.G(sym.Skipped) + " Skipped (no pipeline files)", fmt.Sprint(len(ti.Skipped()))},
		{g.G(sym.Warning) + " Repositories with issues", fmt.Sprint(len(ti.ReposWithIssues()))},
		{g.G(sym.Missing) + " Missing task implementations", fmt.Sprint(ti.TotalMissing())},
		{g.G(sym.Invalid) + " Invalid implementations", fmt.Sprint(ti.TotalInvalid())},
		{g.G(sym.Unknown) + " Unconfigured tasks", fmt.Sprint(len(ti.MissingStates))},
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(table)
	b.WriteString("\n")

	var items []pterm.BulletListItem
	for _, name := range sortedTaskNames(ti.InvalidStates) {
		n := 0
		for _, impls := range ti.InvalidStates[name] {
			n += len(impls)
		}
		items = append(items, pterm.BulletListItem{
			Level: 0,
			Text:  fmt.Sprintf("%s %s: %d invalid (expected %s)", g.G(sym.Invalid), name, n, strings.Join(in.Registry.ValidVersionsFor(name), " or ")),
		})
	}
	for _, name := range sortedTaskNames(ti.MissingStates) {
		items = append(items, pterm.BulletListItem{
			Level: 0,
			Text:  fmt.Sprintf("%s %s: not in %s", g.G(sym.Unknown), ti.MissingStates[name], in.registryFile()),
		})
	}
	if len(items) > 0 {
		list, err := pterm.DefaultBulletList.WithItems(items).Srender()
		if err != nil {
			return "", err
		}
		b.WriteString(list)
	}
	return b.String(), nil
}

package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/teranos/ciprobe/errors"
	"github.com/teranos/ciprobe/registry"
	"github.com/teranos/ciprobe/repo"
	"github.com/teranos/ciprobe/sym"
	"github.com/teranos/ciprobe/task"
)

// Markdown writes the report document to w.
func Markdown(w io.Writer, in Input) error {
	var b strings.Builder
	g := in.glyphs()
	ti := in.Issues

	fmt.Fprintf(&b, "# %s Pipeline Task Analysis Report\n\n", g.G(sym.Report))
	fmt.Fprintf(&b, "%s Generated on: %s\n\n", g.G(sym.Clock), in.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## %s Analyzed Repositories\n\n", g.G(sym.Repos))
	for _, r := range in.analyzedInOrder() {
		fmt.Fprintf(&b, "- %s\n", link(r))
	}
	b.WriteString("\n")

	skipped := ti.Skipped()
	if len(skipped) > 0 {
		fmt.Fprintf(&b, "## %s Skipped Repositories\n\n", g.G(sym.Skipped))
		for _, r := range skipped {
			fmt.Fprintf(&b, "- %s (no pipeline files found)\n", link(r))
		}
		b.WriteString("\n")
	}

	writeSummary(&b, in)

	if len(ti.AllImplementations) > 0 {
		writeValid(&b, in)
	}
	if len(ti.InvalidStates) > 0 {
		writeInvalid(&b, in)
	}
	if len(ti.MissingRequiredTasks) > 0 {
		writeMissingTasks(&b, in)
	}
	if len(ti.MissingStates) > 0 {
		writeMissingStates(&b, in)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFile renders the report to path.
func WriteFile(path string, in Input) error {
	if path == "" {
		path = DefaultPath
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create report %s", path)
	}
	if err := Markdown(f, in); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write report %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close report %s", path)
}

func link(repoID string) string {
	return fmt.Sprintf("[%s](%s)", repo.ShortName(repoID), repoID)
}

func writeSummary(b *strings.Builder, in Input) {
	g := in.glyphs()
	ti := in.Issues

	fmt.Fprintf(b, "## %s Summary\n\n", g.G(sym.Summary))
	fmt.Fprintf(b, "- %s Total repositories analyzed: %d\n", g.G(sym.Building), len(ti.Analyzed()))
	if n := len(ti.Skipped()); n > 0 {
		fmt.Fprintf(b, "- %s Skipped repositories: %d\n", g.G(sym.Skipped), n)
	}
	fmt.Fprintf(b, "- %s Repositories with issues: %d\n", g.G(sym.Warning), len(ti.ReposWithIssues()))
	fmt.Fprintf(b, "- %s Total missing task implementations: %d\n", g.G(sym.Missing), ti.TotalMissing())
	fmt.Fprintf(b, "- %s Total invalid state implementations: %d\n", g.G(sym.Invalid), ti.TotalInvalid())
	b.WriteString("\n")
}

func writeValid(b *strings.Builder, in Input) {
	fmt.Fprintf(b, "## %s Valid Task States\n\n", in.glyphs().G(sym.Valid))

	valid := in.Issues.ValidTasks(in.Registry)
	if len(valid) == 0 {
		b.WriteString("No tasks are currently in a valid state.\n\n")
		return
	}
	for _, vt := range valid {
		fmt.Fprintf(b, "- %s v%s (%s)\n", vt.Name, strings.Join(vt.Versions, ", v"), strings.Join(shortNames(vt.Repos), ", "))
	}
	b.WriteString("\n")
}

func writeInvalid(b *strings.Builder, in Input) {
	g := in.glyphs()
	fmt.Fprintf(b, "## %s Invalid Task States\n\n", g.G(sym.Warning))

	for _, name := range sortedTaskNames(in.Issues.InvalidStates) {
		expected := registry.SortVersions(in.Registry.ValidVersionsFor(name))
		fmt.Fprintf(b, "### %s %s (expected: %s)\n\n", g.G(sym.Task), name, strings.Join(expected, " or "))

		byRepo := in.Issues.InvalidStates[name]
		for _, r := range sortedRepos(byRepo) {
			fmt.Fprintf(b, "#### %s %s\n\n", g.G(sym.Folder), link(r))
			for _, impl := range byRepo[r] {
				fmt.Fprintf(b, "- Version %s in `%s`\n", impl.Version, in.relPath(r, impl.FilePath))
			}
			b.WriteString("\n")
		}
	}
}

func writeMissingTasks(b *strings.Builder, in Input) {
	fmt.Fprintf(b, "## %s Missing Tasks per Repository\n\n", in.glyphs().G(sym.Missing))

	repos := make([]string, 0, len(in.Issues.MissingRequiredTasks))
	for r := range in.Issues.MissingRequiredTasks {
		repos = append(repos, r)
	}
	sort.Strings(repos)

	for _, r := range repos {
		names := append([]task.Name(nil), in.Issues.MissingRequiredTasks[r]...)
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = string(n)
		}
		fmt.Fprintf(b, "- %s: %s\n", link(r), strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

func writeMissingStates(b *strings.Builder, in Input) {
	fmt.Fprintf(b, "## %s Tasks with Missing Valid States\n\n", in.glyphs().G(sym.Missing))

	originals := make([]string, 0, len(in.Issues.MissingStates))
	for _, original := range in.Issues.MissingStates {
		originals = append(originals, string(original))
	}
	sort.Strings(originals)

	for _, name := range originals {
		fmt.Fprintf(b, "- %s\n", name)
	}
	fmt.Fprintf(b, "\nConsider adding these tasks to your `%s` with the appropriate valid versions.\n\n", in.registryFile())
}

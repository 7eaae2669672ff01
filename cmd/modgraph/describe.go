// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/invowk/modgraph/internal/dag"
	"github.com/invowk/modgraph/internal/issue"
	"github.com/invowk/modgraph/pkg/modgraph"
)

const (
	outputText = "text"
	outputYAML = "yaml"

	exportAll       = "all"
	exportQualified = "qualified"
	exportNone      = "none"
)

type (
	// describeReport is the graph in read order. Cycles lists groups of
	// modules that read each other.
	describeReport struct {
		Modules []moduleReport `yaml:"modules"`
		Cycles  [][]string     `yaml:"cycles,omitempty"`
	}

	moduleReport struct {
		Name      string          `yaml:"name"`
		Version   string          `yaml:"version,omitempty"`
		Location  string          `yaml:"location,omitempty"`
		Automatic bool            `yaml:"automatic,omitempty"`
		ReadsAll  bool            `yaml:"reads_all,omitempty"`
		Packages  []packageReport `yaml:"packages,omitempty"`
		Reads     []string        `yaml:"reads,omitempty"`
	}

	packageReport struct {
		Name string `yaml:"name"`
		// Export is "all", "qualified" or "none".
		Export string   `yaml:"export"`
		To     []string `yaml:"to,omitempty"`
	}

	// readGroup is a set of modules listed together in read order.
	readGroup struct {
		modules []string
		cycle   bool
	}
)

// newDescribeCommand creates `modgraph describe`.
func newDescribeCommand(app *App) *cobra.Command {
	var (
		files  []string
		output string
	)

	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "Print every module with its packages, exports and reads",
		Long: `Print every module with its packages, exports and reads.

Modules are listed in read order: a module comes after the modules it reads.
Modules that read each other in a cycle are grouped and listed together.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputText && output != outputYAML {
				return fmt.Errorf("unknown output format %q (want %s or %s)", output, outputText, outputYAML)
			}
			lg, err := app.loadGraph(cmd.Context(), files)
			if err != nil {
				return err
			}

			report := buildReport(lg.graph)
			log.FromContext(cmd.Context()).Debug("graph described", "modules", len(report.Modules), "cycles", len(report.Cycles))

			if output == outputYAML {
				return writeYAMLReport(cmd.OutOrStdout(), report)
			}
			writeTextReport(cmd.OutOrStdout(), report)
			if len(report.Cycles) > 0 && app.verbose {
				if rendered, renderErr := issue.Get(issue.ReadCycleId).Render("dark"); renderErr == nil {
					fmt.Fprint(cmd.ErrOrStderr(), rendered)
				}
			}
			return nil
		},
	}

	describeCmd.Flags().StringSliceVarP(&files, "file", "f", nil, "declaration files or doublestar globs (default from config)")
	describeCmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or yaml")

	return describeCmd
}

// readOrder groups module names so that every group follows the groups it
// reads. A group is a cycle when its modules read each other.
func readOrder(g *modgraph.Graph, modules []modgraph.ModuleInfo) []readGroup {
	names := make(map[modgraph.ModuleID]string, len(modules))
	for _, m := range modules {
		names[m.ID] = m.Name
	}

	dg := dag.New()
	for _, m := range modules {
		dg.AddNode(m.Name)
	}
	for _, m := range modules {
		for _, target := range g.Reads(m.ID) {
			dg.AddEdge(names[target], m.Name)
		}
	}

	order, err := dg.TopologicalSort()
	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		comps := dg.Components()
		groups := make([]readGroup, 0, len(comps))
		for _, comp := range comps {
			groups = append(groups, readGroup{modules: comp, cycle: dg.IsCycle(comp)})
		}
		return groups
	}

	groups := make([]readGroup, 0, len(order))
	for _, name := range order {
		groups = append(groups, readGroup{modules: []string{name}})
	}
	return groups
}

func buildReport(g *modgraph.Graph) describeReport {
	modules := g.Modules()
	byName := make(map[string]modgraph.ModuleInfo, len(modules))
	names := make(map[modgraph.ModuleID]string, len(modules))
	for _, m := range modules {
		byName[m.Name] = m
		names[m.ID] = m.Name
	}

	var report describeReport
	for _, group := range readOrder(g, modules) {
		if group.cycle {
			report.Cycles = append(report.Cycles, group.modules)
		}
		for _, name := range group.modules {
			report.Modules = append(report.Modules, moduleReportFor(g, byName[name], names))
		}
	}
	return report
}

func moduleReportFor(g *modgraph.Graph, m modgraph.ModuleInfo, names map[modgraph.ModuleID]string) moduleReport {
	exports := make(map[string]modgraph.Export)
	for _, exp := range g.Exports(m.ID) {
		exports[exp.Package] = exp
	}

	mr := moduleReport{
		Name:      m.Name,
		Version:   m.Version,
		Location:  m.Location,
		Automatic: m.Automatic,
		ReadsAll:  m.Loose,
	}
	for _, pkg := range m.Packages {
		pr := packageReport{Name: pkg, Export: exportNone}
		if exp, ok := exports[pkg]; ok {
			if exp.Unqualified {
				pr.Export = exportAll
			} else {
				pr.Export = exportQualified
				for _, to := range exp.Targets {
					pr.To = append(pr.To, names[to])
				}
			}
		}
		mr.Packages = append(mr.Packages, pr)
	}
	for _, to := range g.Reads(m.ID) {
		mr.Reads = append(mr.Reads, names[to])
	}
	return mr
}

func writeYAMLReport(w io.Writer, report describeReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

func writeTextReport(w io.Writer, report describeReport) {
	inCycle := make(map[string]bool)
	for _, cycle := range report.Cycles {
		for _, name := range cycle {
			inCycle[name] = true
		}
		fmt.Fprintln(w, cycleBoxStyle.Render(WarningStyle.Render("read cycle: ")+strings.Join(cycle, " <-> ")))
	}

	for _, m := range report.Modules {
		header := m.Name
		if m.Version != "" {
			header += "@" + m.Version
		}
		fmt.Fprintln(w, moduleHeaderStyle.Render(header))

		var notes []string
		if m.Location != "" {
			notes = append(notes, m.Location)
		}
		if m.Automatic {
			notes = append(notes, "automatic")
		}
		if m.ReadsAll {
			notes = append(notes, "reads all modules")
		}
		if inCycle[m.Name] {
			notes = append(notes, "in read cycle")
		}
		if len(notes) > 0 {
			fmt.Fprintln(w, "  "+SubtitleStyle.Render(strings.Join(notes, ", ")))
		}

		for _, pkg := range m.Packages {
			var export string
			switch pkg.Export {
			case exportAll:
				export = SuccessStyle.Render("exported")
			case exportQualified:
				export = SuccessStyle.Render("exported to " + strings.Join(pkg.To, ", "))
			default:
				export = SubtitleStyle.Render("not exported")
			}
			fmt.Fprintf(w, "  package %s  %s\n", CmdStyle.Render(pkg.Name), export)
		}
		if len(m.Reads) > 0 {
			fmt.Fprintf(w, "  reads %s\n", strings.Join(m.Reads, ", "))
		}
	}
}

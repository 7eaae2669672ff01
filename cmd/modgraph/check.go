// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/invowk/modgraph/internal/issue"
)

// newCheckCommand creates `modgraph check`, which exits 1 when access is denied.
func newCheckCommand(app *App) *cobra.Command {
	var files []string

	checkCmd := &cobra.Command{
		Use:   "check <accessor> <target> <package>",
		Short: "Check whether a module may access a package of another module",
		Long: `Check whether <accessor> may access <package> of <target>.

Prints Allowed, or Denied with the reason: "not exported" when the package is
not exported to the accessor, "no read edge" when the accessor does not read
the target. Exits with status 1 when access is denied.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, app, files, args[0], args[1], args[2])
		},
	}

	checkCmd.Flags().StringSliceVarP(&files, "file", "f", nil, "declaration files or doublestar globs (default from config)")

	return checkCmd
}

func runCheck(cmd *cobra.Command, app *App, files []string, accessor, target, pkg string) error {
	ctx := cmd.Context()
	lg, err := app.loadGraph(ctx, files)
	if err != nil {
		return err
	}

	decision, err := lg.graph.CheckAccessByName(accessor, target, pkg)
	if err != nil {
		return declarationError("check access", fmt.Sprintf("%s -> %s (%s)", accessor, target, pkg), err)
	}
	log.FromContext(ctx).Debug("access checked", "accessor", accessor, "target", target, "package", pkg, "decision", decision)

	out := cmd.OutOrStdout()
	if decision.Allowed {
		fmt.Fprintln(out, SuccessStyle.Render(decision.String()))
		return nil
	}

	fmt.Fprintln(out, ErrorStyle.Render(decision.String()))
	if app.verbose {
		if rendered, renderErr := issue.Get(issue.AccessDeniedId).Render("dark"); renderErr == nil {
			fmt.Fprint(cmd.ErrOrStderr(), rendered)
		}
	}
	return &ExitError{Code: 1}
}

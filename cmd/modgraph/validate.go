// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/invowk/modgraph/internal/watch"
)

// newValidateCommand creates `modgraph validate`.
func newValidateCommand(app *App) *cobra.Command {
	var (
		files      []string
		watchFiles bool
	)

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate declaration files",
		Long: `Parse the declaration files and build the module graph they describe.

Reports the first syntax error, unknown field, duplicate module, package
conflict or unresolved module reference. With --watch, validation runs again
whenever a matching file changes, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			err := validateOnce(ctx, app, cmd.OutOrStdout(), files)
			if !watchFiles || len(app.declarationPatterns(files)) == 0 {
				return err
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, app.verbose))
			}
			return watchDeclarations(ctx, app, cmd.OutOrStdout(), cmd.ErrOrStderr(), files)
		},
	}

	validateCmd.Flags().StringSliceVarP(&files, "file", "f", nil, "declaration files or doublestar globs (default from config)")
	validateCmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "validate again whenever a declaration file changes")

	return validateCmd
}

func validateOnce(ctx context.Context, app *App, out io.Writer, files []string) error {
	lg, err := app.loadGraph(ctx, files)
	if err != nil {
		return err
	}

	packages := 0
	for _, m := range lg.graph.Modules() {
		packages += len(m.Packages)
	}
	fmt.Fprintf(out, "%s %d modules, %d packages from %d files\n",
		SuccessStyle.Render("✓"), lg.graph.Len(), packages, len(lg.sources))
	return nil
}

// watchDeclarations revalidates on every change until ctx is canceled.
func watchDeclarations(ctx context.Context, app *App, out, errOut io.Writer, files []string) error {
	patterns := app.declarationPatterns(files)
	w, err := watch.New(watch.Config{
		Patterns: patterns,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintln(out, SubtitleStyle.Render(fmt.Sprintf("%d file(s) changed", len(changed))))
			if err := validateOnce(ctx, app, out, patterns); err != nil {
				fmt.Fprintln(errOut, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, app.verbose))
			}
			return nil
		},
	})
	if err != nil {
		return err
	}

	log.FromContext(ctx).Info("watching declarations", "roots", w.Roots())
	return w.Run(ctx)
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/fang"

	"github.com/invowk/modgraph/internal/issue"
	"github.com/invowk/modgraph/pkg/decl"
	"github.com/invowk/modgraph/pkg/modgraph"
)

// issueFor maps a declaration or graph error to its catalog entry.
func issueFor(err error) issue.Id {
	switch {
	case errors.Is(err, decl.ErrNoDeclarations):
		return issue.DeclarationsNotFoundId
	case errors.Is(err, modgraph.ErrDuplicateModule):
		return issue.DuplicateModuleId
	case errors.Is(err, modgraph.ErrPackageConflict):
		return issue.PackageConflictId
	case errors.Is(err, modgraph.ErrUnknownModule):
		return issue.ModuleNotFoundId
	case errors.Is(err, modgraph.ErrUnknownPackage):
		return issue.PackageNotFoundId
	case errors.Is(err, modgraph.ErrInvalidName):
		return issue.InvalidNameId
	case errors.Is(err, modgraph.ErrInvalidVersion):
		return issue.InvalidVersionId
	default:
		return issue.DeclarationParseErrorId
	}
}

// declarationError wraps err with the operation that failed and suggestions
// matching its catalog entry.
func declarationError(operation, resource string, err error) error {
	id := issueFor(err)
	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithIssue(id)

	switch id {
	case issue.DeclarationsNotFoundId:
		ctx.WithSuggestion("Pass declaration files with -f, e.g. -f 'graphs/**/*.cue'").
			WithSuggestion("Set default patterns with 'declarations' in your config file")
	case issue.ModuleNotFoundId:
		ctx.WithSuggestion("Check the module name for typos").
			WithSuggestion("Make sure the declaring file is matched by your -f patterns")
	case issue.PackageConflictId, issue.DuplicateModuleId:
		ctx.WithSuggestion("Every module name and every package must be declared once")
	case issue.PackageNotFoundId:
		ctx.WithSuggestion("A module can only export packages listed in its packages")
	case issue.InvalidVersionId:
		ctx.WithSuggestion("Use a semantic version or set versions.policy to \"freeform\"")
	case issue.DeclarationParseErrorId:
		ctx.WithSuggestion("Run 'modgraph validate' to check the declaration files")
	}

	return ctx.Wrap(err).BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderIssueHelp writes the catalog guidance linked to err, if any.
func renderIssueHelp(w io.Writer, err error) {
	i, ok := issue.IssueOf(err)
	if !ok {
		return
	}
	rendered, renderErr := i.Render("dark")
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// errorHandler prints command errors. ExitErrors without a cause were
// already reported by the command.
func (a *App) errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fang.DefaultErrorHandler(w, styles, err)
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))
	if a.verbose {
		renderIssueHelp(w, err)
	}
}

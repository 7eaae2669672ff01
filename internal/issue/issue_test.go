// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

var allIds = []Id{
	ConfigLoadFailedId,
	DeclarationsNotFoundId,
	DeclarationParseErrorId,
	ModuleNotFoundId,
	DuplicateModuleId,
	PackageConflictId,
	PackageNotFoundId,
	InvalidNameId,
	InvalidVersionId,
	ReadCycleId,
	AccessDeniedId,
}

func TestId_Constants(t *testing.T) {
	seen := make(map[Id]bool)
	for _, id := range allIds {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if ConfigLoadFailedId != 1 {
		t.Errorf("ConfigLoadFailedId = %d, want 1", ConfigLoadFailedId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		contains string
	}{
		{ConfigLoadFailedId, "Failed to load configuration"},
		{DeclarationsNotFoundId, "No declaration files found"},
		{DeclarationParseErrorId, "Failed to parse a declaration"},
		{ModuleNotFoundId, "Module not found"},
		{DuplicateModuleId, "Duplicate module"},
		{PackageConflictId, "claimed by two modules"},
		{PackageNotFoundId, "Package not found"},
		{InvalidNameId, "Invalid module or package name"},
		{InvalidVersionId, "Invalid module version"},
		{ReadCycleId, "cycle"},
		{AccessDeniedId, "Access denied"},
	}

	for _, tt := range tests {
		issue := Get(tt.id)
		if issue == nil {
			t.Errorf("Get(%d) returned nil", tt.id)
			continue
		}
		if issue.Id() != tt.id {
			t.Errorf("Get(%d).Id() = %d", tt.id, issue.Id())
		}
		if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
			t.Errorf("Get(%d) message should contain %q", tt.id, tt.contains)
		}
	}

	if Get(Id(9999)) != nil {
		t.Error("Get(9999) should return nil")
	}
}

func TestValues(t *testing.T) {
	values := Values()
	if len(values) != len(allIds) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(allIds))
	}
	for i, issue := range values {
		if issue.Id() != allIds[i] {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, issue.Id(), allIds[i])
		}
		if issue.MarkdownMsg() == "" {
			t.Errorf("Issue %d has empty MarkdownMsg", issue.Id())
		}
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	issue := Get(InvalidVersionId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("InvalidVersionId should carry an external link")
	}
	links[0] = "modified"
	if issue.ExtLinks()[0] == "modified" {
		t.Error("ExtLinks() should return a clone")
	}
	if len(issue.DocLinks()) != 0 {
		t.Errorf("unexpected doc links %v", issue.DocLinks())
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}

	rendered, err := Get(InvalidVersionId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "semver") {
		t.Error("Render() output should contain the message")
	}
	if !strings.Contains(rendered, "## See also:") || !strings.Contains(rendered, "https://semver.org") {
		t.Errorf("Render() output should list links, got:\n%s", rendered)
	}

	rendered, err = Get(ReadCycleId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("issues without links should not render a See also section")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for _, issue := range Values() {
		rendered, err := issue.Render("notty")
		if err != nil {
			t.Errorf("Issue %d failed to render: %v", issue.Id(), err)
		}
		if rendered == "" {
			t.Errorf("Issue %d rendered to empty string", issue.Id())
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestGetRegisteredIssues(t *testing.T) {
	t.Parallel()

	for _, id := range Ids() {
		issue := Get(id)
		if issue == nil {
			t.Fatalf("expected issue registered for id %d", id)
		}
		if issue.Id() != id {
			t.Errorf("issue registered under id %d reports id %d", id, issue.Id())
		}
		if strings.TrimSpace(string(issue.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty message", id)
		}
	}
}

func TestGetUnknownId(t *testing.T) {
	t.Parallel()

	if Get(Id(9999)) != nil {
		t.Error("expected nil for unregistered id")
	}
}

func TestIdsSorted(t *testing.T) {
	t.Parallel()

	ids := Ids()
	if len(ids) == 0 {
		t.Fatal("expected registered issues")
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("ids not in ascending order: %v", ids)
		}
	}
}

func TestRenderUsesRegisteredMarkdown(t *testing.T) {
	// Not parallel: swaps the package-level renderer.
	// Swap the renderer to avoid terminal detection in CI.
	orig := render
	defer func() { render = orig }()
	render = func(in, _ string) (string, error) { return in, nil }

	out, err := Get(ExecutableNotFoundId).Render("dark")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "benchmark executable") {
		t.Errorf("expected rendered output to contain issue text, got %q", out)
	}
}

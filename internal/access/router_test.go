package access

import "testing"

func testRouter() *Router {
	table := []Destination{
		{RoleMinistre, "/minister-dashboard"},
		{RoleArmateurPI, "/armeur-dashboard"},
		{RoleAdmin, "/admin"},
	}
	return NewRouter(table, DefaultLandingPath)
}

func TestDecideRendersOnIntersection(t *testing.T) {
	r := testRouter()

	d := r.Decide([]Role{RolePecheur, RoleInspecteur}, []Role{RoleInspecteur}, false)
	if d.Outcome != OutcomeRender {
		t.Fatalf("expected render, got %s", d.Outcome)
	}
}

func TestDecideRendersOnEmptyGuard(t *testing.T) {
	r := testRouter()

	d := r.Decide([]Role{RolePecheur}, nil, false)
	if d.Outcome != OutcomeRender {
		t.Fatalf("expected render for unguarded route, got %s", d.Outcome)
	}
}

func TestDecideRedirectsToFirstMatchingDestination(t *testing.T) {
	r := testRouter()

	// armateur_pi is denied by a ministre/admin guard and must land on the
	// armateur dashboard, the first table entry it holds.
	d := r.Decide([]Role{RoleArmateurPI}, []Role{RoleMinistre, RoleAdmin}, false)
	if d.Outcome != OutcomeRedirect {
		t.Fatalf("expected redirect, got %s", d.Outcome)
	}
	if d.Path != "/armeur-dashboard" {
		t.Fatalf("expected /armeur-dashboard, got %q", d.Path)
	}
}

func TestDecidePrefersEarlierTableEntry(t *testing.T) {
	r := testRouter()

	// holds both ministre and admin; ministre is declared first.
	d := r.Decide([]Role{RoleAdmin, RoleMinistre}, []Role{RolePecheur}, false)
	if d.Outcome != OutcomeRedirect {
		t.Fatalf("expected redirect, got %s", d.Outcome)
	}
	if d.Path != "/minister-dashboard" {
		t.Fatalf("expected /minister-dashboard, got %q", d.Path)
	}
}

func TestDecideFallsBackToDefaultPath(t *testing.T) {
	r := testRouter()

	d := r.Decide([]Role{RolePecheur}, []Role{RoleAdmin}, false)
	if d.Outcome != OutcomeRedirect {
		t.Fatalf("expected redirect, got %s", d.Outcome)
	}
	if d.Path != DefaultLandingPath {
		t.Fatalf("expected default path %q, got %q", DefaultLandingPath, d.Path)
	}
}

func TestDecideLoadingState(t *testing.T) {
	r := testRouter()

	d := r.Decide(nil, []Role{RoleAdmin}, true)
	if d.Outcome != OutcomeLoading {
		t.Fatalf("expected loading, got %s", d.Outcome)
	}
	if d.Path != "" {
		t.Fatalf("loading decision must not carry a path, got %q", d.Path)
	}
}

func TestLandingUsesDefaultTable(t *testing.T) {
	r := NewRouter(DefaultDestinations(), DefaultLandingPath)

	if got := r.Landing([]Role{RolePecheur}); got != "/fisher-dashboard" {
		t.Fatalf("expected /fisher-dashboard, got %q", got)
	}
	if got := r.Landing([]Role{RoleInspecteur, RoleMinistre}); got != "/minister-dashboard" {
		t.Fatalf("ministre outranks inspecteur, got %q", got)
	}
}

func TestParseRoleRejectsUnknownLabel(t *testing.T) {
	if _, err := ParseRole("super_admin"); err == nil {
		t.Fatal("expected error for unknown role label")
	}
	if _, err := ParseRoles([]string{"pecheur", "nope"}); err == nil {
		t.Fatal("expected error for list containing unknown role label")
	}

	roles, err := ParseRoles([]string{"dgpa", "anpa", "oprag"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roles) != 3 || roles[0] != RoleDGPA {
		t.Fatalf("unexpected parse result: %v", roles)
	}
}

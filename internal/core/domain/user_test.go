package domain

import (
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"":             RoleStaff,
		"staff":        RoleStaff,
		"STAFF":        RoleStaff,
		"Admin":        RoleAdmin,
		" admin ":      RoleAdmin,
		"PHOTOGRAPHER": RolePhotographer,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil {
			t.Fatalf("ParseRole(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseRole("owner"); err != ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestRole_IsIgnoresCase(t *testing.T) {
	if !Role("ADMIN").Is(RoleAdmin) {
		t.Fatalf("ADMIN should match admin")
	}
	if RoleStaff.Is(RoleAdmin) {
		t.Fatalf("staff must not match admin")
	}
	if Role("root").Valid() {
		t.Fatalf("root is not a defined role")
	}
}

func TestClaims_HasRole(t *testing.T) {
	var nilClaims *Claims
	if nilClaims.HasRole(RoleAdmin) {
		t.Fatalf("nil claims must not carry a role")
	}
	c := &Claims{Role: "Admin"}
	if !c.HasRole(RoleAdmin) {
		t.Fatalf("expected case-insensitive role match")
	}
}

func TestProfileUpdate_Apply(t *testing.T) {
	name := "Jane Doe"
	u := &User{FullName: "Old", Phone: "0700", AvatarURL: "a.png"}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	ProfileUpdate{FullName: &name}.Apply(u, now)

	if u.FullName != name {
		t.Fatalf("full name not applied: %q", u.FullName)
	}
	if u.Phone != "0700" || u.AvatarURL != "a.png" {
		t.Fatalf("untouched fields changed: %+v", u)
	}
	if !u.UpdatedAt.Equal(now) {
		t.Fatalf("updated_at not refreshed")
	}
	if !(ProfileUpdate{}).Empty() {
		t.Fatalf("zero update should be empty")
	}
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Grants(t *testing.T) {
	blog := NewRoleSet(RoleEditor)
	forms := NewRoleSet(RoleFormManager)
	adminOnly := NewRoleSet(RoleAdmin)

	tests := []struct {
		name    string
		role    Role
		allowed RoleSet
		want    bool
	}{
		{"admin passes editor route", RoleAdmin, blog, true},
		{"admin passes form route", RoleAdmin, forms, true},
		{"admin passes admin route", RoleAdmin, adminOnly, true},
		{"editor passes editor route", RoleEditor, blog, true},
		{"editor denied on form route", RoleEditor, forms, false},
		{"editor denied on admin route", RoleEditor, adminOnly, false},
		{"form manager passes form route", RoleFormManager, forms, true},
		{"form manager denied on editor route", RoleFormManager, blog, false},
		{"unknown role denied", Role("owner"), blog, false},
		{"empty allowed set admits known role", RoleEditor, nil, true},
		{"empty allowed set rejects unknown role", Role(""), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Grants(tt.allowed))
		})
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range Roles() {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("superuser").Valid())
}

func TestSubmission_Kinds(t *testing.T) {
	var subs = []Submission{
		&ContactSubmission{},
		&DiscoveryCallSubmission{},
		&TalkGrowthSubmission{},
	}
	for i, s := range subs {
		assert.Equal(t, SubmissionKinds()[i], s.Kind())
		assert.NotNil(t, s.Base())
	}
}

func TestAdminUser_ProfileOmitsPassword(t *testing.T) {
	u := &AdminUser{Email: "a@b.com", Password: "secret-hash", Role: RoleEditor}
	p := u.Profile()
	assert.Equal(t, "a@b.com", p.Email)
	assert.Equal(t, RoleEditor, p.Role)
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		name     string
		caller   models.Role
		required []models.Role
		want     bool
	}{
		{"admin passes admin gate", models.RoleAdmin, []models.Role{models.RoleAdmin}, true},
		{"participant fails admin gate", models.RoleParticipant, []models.Role{models.RoleAdmin}, false},
		{"mentor fails admin gate", models.RoleMentor, []models.Role{models.RoleAdmin}, false},
		{"admin passes any gate", models.RoleAdmin, []models.Role{models.RoleMentor}, true},
		{"matching role passes", models.RoleManager, []models.Role{models.RoleMentor, models.RoleManager}, true},
		{"empty requirement passes everyone", models.RoleParticipant, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.caller, tt.required...))
		})
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, models.RoleAdmin, models.ParseRole("admin"))
	assert.Equal(t, models.RoleMentor, models.ParseRole("mentor"))
	assert.Equal(t, models.RoleParticipant, models.ParseRole(""))
	assert.Equal(t, models.RoleParticipant, models.ParseRole("superuser"))
}

package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		role  Role
		floor Role
		want  bool
	}{
		{RoleOrganizer, RoleOrganizer, true},
		{RoleOrganizer, RoleInvitor, true},
		{RoleOrganizer, RoleParticipant, true},
		{RoleInvitor, RoleOrganizer, false},
		{RoleInvitor, RoleInvitor, true},
		{RoleInvitor, RoleParticipant, true},
		{RoleParticipant, RoleInvitor, false},
		{RoleParticipant, RoleParticipant, true},
		{RoleNone, RoleParticipant, false},
		{RoleNone, RoleNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.role.String()+">="+tt.floor.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.floor))
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Organizer ")
	require.NoError(t, err)
	assert.Equal(t, RoleOrganizer, r)

	_, err = ParseRole("admin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = ParseRole("none")
	require.Error(t, err)
}

func TestRole_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{RoleInvitor})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"invitor"}`, string(b))

	var got struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"participant"}`), &got))
	assert.Equal(t, RoleParticipant, got.Role)

	require.Error(t, json.Unmarshal([]byte(`{"role":"boss"}`), &got))
}

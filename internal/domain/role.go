package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the privilege tier an invitation grants within a party.
// Values are ordered: a higher role implies every privilege of the lower ones.
type Role int

const (
	// RoleNone means the user has no relationship with the party.
	RoleNone Role = iota
	RoleParticipant
	RoleInvitor
	RoleOrganizer
)

var roleNames = map[Role]string{
	RoleParticipant: "participant",
	RoleInvitor:     "invitor",
	RoleOrganizer:   "organizer",
}

// ParseRole parses the lowercase role name used in storage and JSON.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return RoleNone, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "none"
}

// Valid reports whether r can be stored on an invitation.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// AtLeast reports whether r grants the privileges of floor.
func (r Role) AtLeast(floor Role) bool {
	return r != RoleNone && r >= floor
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

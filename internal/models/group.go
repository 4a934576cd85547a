package models

import "strings"

// Group represents a set of people who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string

	// Members is the set of member identifiers in this group.
	// Members are case-normalized email strings, stored sorted and unique.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether the given (normalized) member id belongs to the
// group.
func (g *Group) HasMember(member string) bool {
	for _, m := range g.Members {
		if m == member {
			return true
		}
	}
	return false
}

// NormalizeMember canonicalizes a member identifier: trimmed and lowercased.
// Every member id entering the system goes through this exactly once, at the
// boundary.
func NormalizeMember(member string) string {
	return strings.ToLower(strings.TrimSpace(member))
}

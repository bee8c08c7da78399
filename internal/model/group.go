package model

import (
	"slices"
	"strings"
)

// Group maps several source accounts onto a single target account.
type Group struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	OwnerOverride     string   `json:"ownerOverride,omitempty"`
	TargetAccountName string   `json:"targetAccountName"`
	Members           []string `json:"members"`
}

// HasMember reports whether sourceID belongs to the group.
func (g Group) HasMember(sourceID string) bool {
	return slices.Contains(g.Members, sourceID)
}

// TargetName is the target account name the group writes to, falling back
// to the group name when no explicit target was chosen.
func (g Group) TargetName() string {
	if name := strings.TrimSpace(g.TargetAccountName); name != "" {
		return name
	}
	return strings.TrimSpace(g.Name)
}

// GroupPatch carries optional metadata changes for a group.
type GroupPatch struct {
	Name              *string
	TargetAccountName *string
	OwnerOverride     *string
}

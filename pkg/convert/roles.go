package convert

import (
	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
)

// canonicalRoles maps legacy roles that have a column role tag of the same name.
var canonicalRoles = map[string]string{
	legacy.RoleID:         columnar.RoleID,
	legacy.RoleLabel:      columnar.RoleLabel,
	legacy.RolePrediction: columnar.RolePrediction,
	legacy.RoleCluster:    columnar.RoleCluster,
	legacy.RoleWeight:     columnar.RoleWeight,
	legacy.RoleBatch:      columnar.RoleBatch,
	legacy.RoleOutlier:    columnar.RoleOutlier,
}

// ColumnRole maps a legacy role to a column role tag and the legacy role hint
// needed to recover it. Regular attributes have neither.
func ColumnRole(role string) (tag, hint string) {
	if role == legacy.RoleRegular {
		return "", ""
	}
	if t, ok := canonicalRoles[role]; ok {
		return t, ""
	}
	if role == legacy.RoleCost || legacy.IsConfidenceRole(role) {
		return columnar.RoleScore, role
	}
	return columnar.RoleMetadata, role
}

// LegacyRole resolves the legacy role of a column from its role tag and hint.
func LegacyRole(tag, hint string) string {
	if hint != "" {
		return hint
	}
	return tag
}

// UniqueTag reports whether at most one column of a table may carry tag.
func UniqueTag(tag string) bool {
	_, ok := canonicalRoles[tag]
	return ok
}

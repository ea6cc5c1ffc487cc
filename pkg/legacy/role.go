package legacy

import "strings"

// Legacy role names. A regular attribute has the empty role.
const (
	RoleRegular    = ""
	RoleID         = "id"
	RoleLabel      = "label"
	RolePrediction = "prediction"
	RoleCluster    = "cluster"
	RoleWeight     = "weight"
	RoleBatch      = "batch"
	RoleOutlier    = "outlier"
	// RoleCost is the classification cost role.
	RoleCost = "cost"
	// ConfidencePrefix starts every per-class confidence role.
	ConfidencePrefix = "confidence_"
)

// ConfidenceRole returns the confidence role name for a class value.
func ConfidenceRole(class string) string {
	return ConfidencePrefix + class
}

// IsConfidenceRole reports whether role is a per-class confidence role.
func IsConfidenceRole(role string) bool {
	return strings.HasPrefix(role, ConfidencePrefix)
}

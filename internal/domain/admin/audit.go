package admin

import (
	"strconv"
	"strings"
)

// Audit severity levels shown in the log.
const (
	AuditInfo = "INFO"
	AuditWarn = "WARN"
)

// AuditLevel classifies an audit action. Freezes and rejections are warnings.
func AuditLevel(action string) string {
	a := strings.ToLower(action)
	if strings.Contains(a, "freeze") || strings.Contains(a, "reject") {
		return AuditWarn
	}
	return AuditInfo
}

// AuditTarget renders "type#id", or "-" when the entry has no target.
func (e AuditEntry) AuditTarget() string {
	var parts []string
	if e.TargetType != nil && *e.TargetType != "" {
		parts = append(parts, *e.TargetType)
	}
	if e.TargetID != nil {
		parts = append(parts, strconv.FormatInt(*e.TargetID, 10))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "#")
}

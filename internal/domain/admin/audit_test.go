package admin

import "testing"

func TestAuditLevel(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{"order.freeze", AuditWarn},
		{"photographer.reject", AuditWarn},
		{"Portfolio_Rejected", AuditWarn},
		{"config.update", AuditInfo},
		{"", AuditInfo},
	}
	for _, tt := range tests {
		if got := AuditLevel(tt.action); got != tt.want {
			t.Errorf("AuditLevel(%q) = %q, want %q", tt.action, got, tt.want)
		}
	}
}

func TestAuditEntry_AuditTarget(t *testing.T) {
	order := "order"
	id := int64(42)

	tests := []struct {
		name  string
		entry AuditEntry
		want  string
	}{
		{"type and id", AuditEntry{TargetType: &order, TargetID: &id}, "order#42"},
		{"type only", AuditEntry{TargetType: &order}, "order"},
		{"id only", AuditEntry{TargetID: &id}, "42"},
		{"none", AuditEntry{}, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.AuditTarget(); got != tt.want {
				t.Errorf("AuditTarget() = %q, want %q", got, tt.want)
			}
		})
	}
}

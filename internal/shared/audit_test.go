package shared_test

import (
	"context"
	"testing"

	"github.com/yoldosh/admin-api/internal/shared"
	_ "github.com/yoldosh/admin-api/testing"
)

func TestRecordOnNilLoggerReturnsError(t *testing.T) {
	var l *shared.AuditLogger
	err := l.Record(context.Background(), shared.AdminLog{AdminID: "a1", Action: "LOGIN"})
	if err == nil {
		t.Fatal("expected error from nil logger")
	}
}

func TestRecordRejectsIncompleteEntries(t *testing.T) {
	l := shared.NewAuditLogger(nil)
	cases := []shared.AdminLog{
		{Action: "LOGIN"},
		{AdminID: "a1"},
		{},
	}
	for _, entry := range cases {
		if err := l.Record(context.Background(), entry); err == nil {
			t.Fatalf("entry %+v should be rejected", entry)
		}
	}
}

package health

import (
	"testing"
	"time"
)

func TestStatusUsesUTCTimestamp(t *testing.T) {
	svc := NewService("1.0.0")
	svc.Now = func() time.Time {
		return time.Date(2026, time.May, 1, 12, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	}

	got := svc.Status()
	if got.Status != "healthy" || got.Version != "1.0.0" {
		t.Fatalf("unexpected status %+v", got)
	}
	if got.Timestamp != "2026-05-01T10:30:00Z" {
		t.Fatalf("unexpected timestamp %q", got.Timestamp)
	}
}

func TestInfo(t *testing.T) {
	info := NewService("2.1.0").Info()
	if info.Status != "active" || info.Version != "2.1.0" || info.Message == "" {
		t.Fatalf("unexpected info %+v", info)
	}
}

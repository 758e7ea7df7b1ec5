package main

import (
	"context"
	"strings"
	"testing"
)

func TestRunRejectsInvalidConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	err := run(context.Background())
	if err == nil {
		t.Fatalf("expected config error")
	}
	if !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunReturnsBuildError(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("ENV", "production")
	t.Setenv("ARCHIVE_STORE", "none")
	t.Setenv("DATABASE_URL", "postgres://127.0.0.1:1/none?sslmode=disable&connect_timeout=1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := run(ctx)
	if err == nil {
		t.Fatalf("expected bootstrap error")
	}
	if !strings.Contains(err.Error(), "bootstrap build") {
		t.Fatalf("unexpected error: %v", err)
	}
}

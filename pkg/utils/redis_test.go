package utils

import (
	"context"
	"testing"
	"time"
)

func TestAttemptScriptInitialized(t *testing.T) {
	if attemptWindowScript == nil {
		t.Fatal("expected script to be initialized")
	}
}

func TestAllowAttemptValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := AllowAttempt(ctx, nil, "k", 5, time.Minute); err == nil {
		t.Fatal("expected error for nil client")
	}
}

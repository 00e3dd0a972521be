package cli

import (
	"testing"
	"time"
)

func TestSetupSignalHandler(t *testing.T) {
	ctx := SetupSignalHandler()

	if ctx.Done() == nil {
		t.Fatal("SetupSignalHandler() context has no Done channel")
	}

	select {
	case <-ctx.Done():
		t.Error("context canceled before any signal")
	case <-time.After(10 * time.Millisecond):
	}
}

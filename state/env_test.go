package state

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"ebr/history"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())

	env := EnvFromContext(ctx)
	if env.start.IsZero() {
		t.Error("start time is not set")
	}
	if env != EnvFromContext(ctx) {
		t.Error("EnvFromContext() returned different environment")
	}
	if env.History != nil || env.CodePage != nil {
		t.Error("fresh environment is not empty")
	}

	time.Sleep(5 * time.Millisecond)
	if env.Uptime() < 5*time.Millisecond {
		t.Errorf("Uptime() = %v", env.Uptime())
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("EnvFromContext() without environment did not panic")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_StdLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := &LocalEnv{Log: zap.New(core)}

	env.RedirectStdLog()
	log.Print("from standard logger")
	env.RestoreStdLog()
	log.Print("after restore")

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "from standard logger" {
		t.Errorf("captured %v", entries)
	}

	// no logger - nothing to redirect
	empty := &LocalEnv{}
	empty.RedirectStdLog()
	if empty.restoreStdLog != nil {
		t.Error("redirected without logger")
	}
	empty.RestoreStdLog()
}

func TestLocalEnv_Close(t *testing.T) {
	env := &LocalEnv{}
	if err := env.Close(); err != nil {
		t.Errorf("Close() without history = %v", err)
	}

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), 10, nil)
	if err != nil {
		t.Fatalf("history.Open() error = %v", err)
	}
	env.History = store
	if err := env.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if env.History != nil {
		t.Error("History is kept after Close()")
	}
	if _, err := store.List(); !errors.Is(err, history.ErrClosed) {
		t.Errorf("store is still open: %v", err)
	}
	// repeated Close is harmless
	if err := env.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

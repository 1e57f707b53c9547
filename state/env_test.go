package state

import (
	"context"
	"log"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"rtable/config"
	"rtable/table"
)

func TestEnvFromContext(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		env := EnvFromContext(ContextWithEnv(context.Background()))
		if env.start.IsZero() {
			t.Error("Environment start time not set")
		}
		if env.Uptime() < 0 || env.Uptime() > time.Minute {
			t.Errorf("Uptime() = %v", env.Uptime())
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("standard log goes through zap", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		env := &LocalEnv{Log: zap.New(core)}

		env.RedirectStdLog()
		log.Print("from standard logger")
		env.RestoreStdLog()
		log.Print("after restore")

		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].Message != "from standard logger" {
			t.Errorf("Message = %q", entries[0].Message)
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})

	t.Run("restore without redirect", func(t *testing.T) {
		env := &LocalEnv{Log: zaptest.NewLogger(t)}
		env.RestoreStdLog()
	})
}

func TestLocalEnv_Options(t *testing.T) {
	t.Run("without config", func(t *testing.T) {
		env := &LocalEnv{}
		if got := env.EditorOptions(); got != (table.Options{}) {
			t.Errorf("EditorOptions() = %+v, want zero", got)
		}
		if got := env.UpcastOptions(); got.Encoding != "" {
			t.Errorf("UpcastOptions() = %+v, want zero", got)
		}
		if got := env.CreateOptions(3, 0); got != (table.CreateOptions{Rows: 3}) {
			t.Errorf("CreateOptions() = %+v", got)
		}
	})

	t.Run("from config", func(t *testing.T) {
		cfg, err := config.LoadConfiguration("")
		if err != nil {
			t.Fatalf("LoadConfiguration() error = %v", err)
		}
		cfg.Editor.MultiCellSelection = true
		cfg.Editor.DefaultColumns = 4
		cfg.Editor.HeadingRows = 1
		cfg.Input.Encoding = "koi8-r"
		env := &LocalEnv{Cfg: cfg}

		want := table.Options{MultiCellSelection: true, MinColumnWidth: 5, DefaultRows: 2, DefaultColumns: 4}
		if got := env.EditorOptions(); got != want {
			t.Errorf("EditorOptions() = %+v, want %+v", got, want)
		}
		if got := env.CreateOptions(0, 0); got != (table.CreateOptions{Rows: 2, Columns: 4, HeadingRows: 1}) {
			t.Errorf("CreateOptions() = %+v", got)
		}
		if got := env.CreateOptions(5, 1); got != (table.CreateOptions{Rows: 5, Columns: 1, HeadingRows: 1}) {
			t.Errorf("CreateOptions() with explicit size = %+v", got)
		}
		if got := env.UpcastOptions(); got.Encoding != "koi8-r" {
			t.Errorf("UpcastOptions() = %+v", got)
		}
	})
}

package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	rctx "github.com/ghostmind-dev/run/pkg/context"
	"github.com/ghostmind-dev/run/pkg/logger"
)

func TestCreateLogger(t *testing.T) {
	log := logger.CreateLogger("", "info")
	if log == nil {
		t.Fatal("expected logger to be created")
	}
}

func TestCreateLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "loud", &buf)

	log.Debug("hidden")
	log.Info("visible")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Error("debug output must be suppressed at the default level")
	}
	if !strings.Contains(output, "visible") {
		t.Error("expected info output at the default level")
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level      string
		suppressed []string
		logged     []string
	}{
		{"debug", nil, []string{"debug msg", "info msg", "warn msg", "error msg"}},
		{"info", []string{"debug msg"}, []string{"info msg", "warn msg", "error msg"}},
		{"warn", []string{"debug msg", "info msg"}, []string{"warn msg", "error msg"}},
		{"error", []string{"debug msg", "info msg", "warn msg"}, []string{"error msg"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.CreateLoggerWithOutput("", tt.level, &buf)

			log.Debug("debug msg")
			log.Info("info msg")
			log.Warn("warn msg")
			log.Error("error msg")

			output := buf.String()
			for _, msg := range tt.suppressed {
				if strings.Contains(output, msg) {
					t.Errorf("level %s: %q should be suppressed", tt.level, msg)
				}
			}
			for _, msg := range tt.logged {
				if !strings.Contains(output, msg) {
					t.Errorf("level %s: expected %q in output", tt.level, msg)
				}
			}
		})
	}
}

func TestLogger_WithTask(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	taskLog := log.WithTask("build")
	taskLog.Info("compiling")

	output := buf.String()
	if !strings.Contains(output, "build") {
		t.Error("expected task name in log output")
	}
	if !strings.Contains(output, "compiling") {
		t.Error("expected message in log output")
	}
}

func TestLogger_Success(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	log.Success("run completed")

	if !strings.Contains(buf.String(), "run completed") {
		t.Error("expected success message in log output")
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	log.Info("task settled",
		logger.WithField("exitCode", 0),
		logger.WithField("group", "10"),
	)

	output := buf.String()
	if !strings.Contains(output, "task settled") {
		t.Error("expected message in log output")
	}
	if !strings.Contains(output, "exitCode=0") {
		t.Errorf("expected rendered field, got %q", output)
	}
	if !strings.Contains(output, "group=10") {
		t.Errorf("expected rendered field, got %q", output)
	}
}

func TestLogger_MultipleTasks(t *testing.T) {
	var buf bytes.Buffer
	baseLog := logger.CreateLoggerWithOutput("", "info", &buf)

	baseLog.WithTask("build").Info("build message")
	baseLog.WithTask("lint").Info("lint message")

	output := buf.String()
	if !strings.Contains(output, "build") {
		t.Error("expected build task in output")
	}
	if !strings.Contains(output, "lint") {
		t.Error("expected lint task in output")
	}
}

func TestLogger_WithContextTracing(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	ctx := rctx.WithRunID(context.Background(), "run-123")
	ctx = rctx.WithPhase(ctx, "running")

	logger.WithContext(ctx, log).Info("group started")

	output := buf.String()
	if !strings.Contains(output, "run_id=run-123") {
		t.Errorf("expected run id field, got %q", output)
	}
	if !strings.Contains(output, "phase=running") {
		t.Errorf("expected phase field, got %q", output)
	}
}

func TestLogger_WithContextKeepsTaskScope(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	ctx := rctx.WithRunID(context.Background(), "run-456")
	logger.WithContext(ctx, log).WithTask("deploy").Info("applying")

	output := buf.String()
	if !strings.Contains(output, "deploy") {
		t.Errorf("expected task scope to survive the context wrapper, got %q", output)
	}
	if !strings.Contains(output, "run_id=run-456") {
		t.Errorf("expected run id field, got %q", output)
	}
}

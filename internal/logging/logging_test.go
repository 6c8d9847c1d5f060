package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestInit_DisabledStaysNop(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "wisp.log")

	if err := Init(false, logPath); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	L().Debug("should go nowhere")
	Sync()

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Errorf("log file exists after disabled Init, stat err = %v", err)
	}
}

func TestInit_EnabledWritesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "wisp.log")

	if err := Init(true, logPath); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer func() {
		logger = zap.NewNop()
	}()

	L().Debug("round started", zap.String("mode", "single-shot"))
	Sync()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty after debug write")
	}
}

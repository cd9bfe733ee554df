package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	log, err := New(Options{Dir: dir, Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debugw("hello", "k", "v")
	zap.L().Info("via global")
	_ = log.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "corpsite.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"hello"`) || !strings.Contains(string(b), `"k":"v"`) {
		t.Fatalf("log missing entry:\n%s", b)
	}
	if !strings.Contains(string(b), "via global") {
		t.Fatalf("logger not installed globally")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestSetLevel(t *testing.T) {
	dir := t.TempDir()
	log, err := New(Options{Dir: dir, Level: "info"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debugw("hidden")
	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	log.Debugw("shown")
	_ = log.Sync()

	b, _ := os.ReadFile(filepath.Join(dir, "corpsite.log"))
	if strings.Contains(string(b), "hidden") || !strings.Contains(string(b), "shown") {
		t.Fatalf("unexpected log contents:\n%s", b)
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

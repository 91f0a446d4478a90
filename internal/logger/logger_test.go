package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestLogger creates a temp log file and initializes the logger with it.
func setupTestLogger(t *testing.T) string {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	logPath := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestInit_WritesHeader(t *testing.T) {
	logPath := setupTestLogger(t)

	if Path() != logPath {
		t.Errorf("Path() = %q, want %q", Path(), logPath)
	}
	if !strings.Contains(readLog(t, logPath), "logger initialized") {
		t.Error("log should contain the init line")
	}
}

func TestDebug_RespectsLevel(t *testing.T) {
	logPath := setupTestLogger(t)

	Debug("hidden-%d", 1)
	SetDebug(true)
	Debug("visible-%d", 2)

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden-1") {
		t.Error("debug message logged at info level")
	}
	if !strings.Contains(content, "visible-2") {
		t.Error("debug message missing after SetDebug(true)")
	}
}

func TestWithComponent(t *testing.T) {
	logPath := setupTestLogger(t)

	WithComponent("remote").Info("listed", "path", "/srv")
	WithJob("abc123").Warn("exit", "code", 23)

	content := readLog(t, logPath)
	for _, want := range []string{"component=remote", "path=/srv", "job=abc123", "code=23"} {
		if !strings.Contains(content, want) {
			t.Errorf("log missing %q:\n%s", want, content)
		}
	}
}

func TestLevels(t *testing.T) {
	logPath := setupTestLogger(t)

	Info("info %s", "msg")
	Warn("warn %s", "msg")
	Error("error %s", "msg")

	content := readLog(t, logPath)
	for _, want := range []string{"level=INFO", "level=WARN", "level=ERROR", "error msg"} {
		if !strings.Contains(content, want) {
			t.Errorf("log missing %q", want)
		}
	}
}

func TestConcurrent(t *testing.T) {
	setupTestLogger(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Info("concurrent %d-%d", n, j)
				WithJob("j").Debug("tick")
			}
		}(i)
	}
	wg.Wait()
}

func TestReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	tmpDir := t.TempDir()

	logPath1 := filepath.Join(tmpDir, "log1.log")
	if err := Init(logPath1); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	Info("message to log1")

	Reset()

	logPath2 := filepath.Join(tmpDir, "log2.log")
	if err := Init(logPath2); err != nil {
		t.Fatalf("Failed to reinit logger: %v", err)
	}
	Info("message to log2")

	content1 := readLog(t, logPath1)
	content2 := readLog(t, logPath2)
	if !strings.Contains(content1, "message to log1") || strings.Contains(content1, "message to log2") {
		t.Errorf("log1 has wrong content:\n%s", content1)
	}
	if !strings.Contains(content2, "message to log2") || strings.Contains(content2, "message to log1") {
		t.Errorf("log2 has wrong content:\n%s", content2)
	}
}

func TestInit_BadPath(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if err := Init(filepath.Join(t.TempDir(), "missing", "dir", "x.log")); err == nil {
		t.Error("expected error for unwritable path")
	}
}

package logging

import (
	"bytes"
	"strings"
	"testing"
)

// capture redirects the logger output streams to buffers for one test.
func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	oldOut, oldErr := out, errOut
	out, errOut = stdout, stderr
	t.Cleanup(func() {
		out, errOut = oldOut, oldErr
	})

	t.Setenv("LOG_TIMESTAMP", "2024-01-01T00:00:00Z")
	return stdout, stderr
}

func TestInfoGoesToStdout(t *testing.T) {
	stdout, stderr := capture(t)

	Initialize("info")
	GetLogger("loader").Info("loaded %d keys", 7)

	if got := stdout.String(); !strings.Contains(got, "[INFO] loader: loaded 7 keys") {
		t.Errorf("unexpected stdout: %q", got)
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected stderr output: %q", stderr.String())
	}
}

func TestErrorGoesToStderr(t *testing.T) {
	stdout, stderr := capture(t)

	Initialize("info")
	GetLogger("loader").Error("boom")

	if stdout.Len() != 0 {
		t.Errorf("unexpected stdout output: %q", stdout.String())
	}
	if got := stderr.String(); !strings.Contains(got, "[ERROR] loader: boom") {
		t.Errorf("unexpected stderr: %q", got)
	}
}

func TestLevelFiltering(t *testing.T) {
	stdout, _ := capture(t)

	Initialize("warn")
	logger := GetLogger("loader")
	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")

	got := stdout.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("suppressed levels leaked: %q", got)
	}
	if !strings.Contains(got, "[WARN] loader: visible") {
		t.Errorf("warn line missing: %q", got)
	}
}

func TestInitializeUnknownLevelDefaultsToInfo(t *testing.T) {
	stdout, _ := capture(t)

	Initialize("bogus")
	logger := GetLogger("loader")
	logger.Debug("hidden")
	logger.Info("visible")

	got := stdout.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("debug leaked at default level: %q", got)
	}
	if !strings.Contains(got, "visible") {
		t.Errorf("info line missing: %q", got)
	}
}

func TestWithFieldIsImmutable(t *testing.T) {
	stdout, _ := capture(t)

	Initialize("info")
	base := GetLogger("watcher")
	derived := base.WithField("config", "a.yaml")

	base.Info("plain")
	derived.Info("decorated")

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), stdout.String())
	}
	if strings.Contains(lines[0], "config=") {
		t.Errorf("base logger gained fields: %q", lines[0])
	}
	if !strings.Contains(lines[1], "config=a.yaml") {
		t.Errorf("derived logger missing field: %q", lines[1])
	}
}

func TestWithFields(t *testing.T) {
	stdout, _ := capture(t)

	Initialize("info")
	GetLogger("watcher").
		WithFields(Field("path", "a.yaml"), Field("attempt", 2)).
		Info("reload")

	got := stdout.String()
	if !strings.Contains(got, "path=a.yaml") || !strings.Contains(got, "attempt=2") {
		t.Errorf("fields missing from output: %q", got)
	}
}

func TestErrorWithErr(t *testing.T) {
	_, stderr := capture(t)

	Initialize("info")
	GetLogger("loader").ErrorWithErr("reload failed", errTest)

	if got := stderr.String(); !strings.Contains(got, "reload failed - test error") {
		t.Errorf("unexpected stderr: %q", got)
	}
}

func TestFatalExits(t *testing.T) {
	_, stderr := capture(t)

	exitCode := -1
	oldExit := exitFunc
	exitFunc = func(code int) { exitCode = code }
	defer func() { exitFunc = oldExit }()

	Initialize("info")
	GetLogger("loader").Fatal("unrecoverable")

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(stderr.String(), "[FATAL] loader: unrecoverable") {
		t.Errorf("fatal line missing: %q", stderr.String())
	}
}

type testError struct{}

func (testError) Error() string { return "test error" }

var errTest = testError{}

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPIDFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "server.pid")
	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	if got := readPIDFile(path); got != os.Getpid() {
		t.Errorf("readPIDFile() = %d, want %d", got, os.Getpid())
	}
}

func TestReadPIDFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	if got := readPIDFile(filepath.Join(dir, "missing.pid")); got != 0 {
		t.Errorf("missing file = %d, want 0", got)
	}
	bad := filepath.Join(dir, "bad.pid")
	if err := os.WriteFile(bad, []byte("not-a-pid\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := readPIDFile(bad); got != 0 {
		t.Errorf("garbage file = %d, want 0", got)
	}
}

func TestStopConsole_NoPIDFile(t *testing.T) {
	var out bytes.Buffer
	err := stopConsole(&out, filepath.Join(t.TempDir(), "server.pid"), time.Second)
	if !errors.Is(err, errNotRunning) {
		t.Errorf("stopConsole() = %v, want errNotRunning", err)
	}
}

func TestWaitForExit_LiveProcessTimesOut(t *testing.T) {
	self, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatal(err)
	}
	if waitForExit(self, 30*time.Millisecond, 10*time.Millisecond) {
		t.Error("the test process should still be alive")
	}
}

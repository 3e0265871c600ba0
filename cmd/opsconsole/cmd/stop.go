package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var stopTimeout time.Duration

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running console",
	Long: `Stop the console started by "opsconsole serve". The process is found
through ~/.opsconsole/server.pid and asked to shut down; it is killed when it
has not exited within --timeout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopConsole(cmd.ErrOrStderr(), pidFilePath(), stopTimeout)
	},
}

func init() {
	stopCmd.Flags().DurationVar(&stopTimeout, "timeout", 10*time.Second, "how long to wait before killing the console")
	rootCmd.AddCommand(stopCmd)
}

var errNotRunning = errors.New("console is not running")

func stopConsole(w io.Writer, pidPath string, timeout time.Duration) error {
	pid := readPIDFile(pidPath)
	if pid == 0 {
		return fmt.Errorf("%w: no PID file at %s", errNotRunning, pidPath)
	}
	// The PID file is stale or about to be, whatever happens below.
	defer os.Remove(pidPath)

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("invalid PID %d: %w", pid, err)
	}
	if !processIsAlive(proc) {
		return fmt.Errorf("%w: process %d is gone, removed the stale PID file", errNotRunning, pid)
	}

	fmt.Fprintf(w, "Stopping console (PID %d)...\n", pid)
	if err := sendGracefulStop(proc); err != nil {
		return fmt.Errorf("failed to stop console: %w", err)
	}
	if waitForExit(proc, timeout, 200*time.Millisecond) {
		fmt.Fprintln(w, "Console stopped.")
		return nil
	}

	fmt.Fprintf(w, "Console still running after %s, killing it.\n", timeout)
	return proc.Kill()
}

// waitForExit polls until proc is gone or timeout passes.
func waitForExit(proc *os.Process, timeout, interval time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		time.Sleep(interval)
		if !processIsAlive(proc) {
			return true
		}
	}
	return false
}

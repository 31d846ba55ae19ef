package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteCommand_ClosesLogFileWhenCommandFails(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "csvdesk.log")
	t.Cleanup(func() { logFile = "" })

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"completion", "tcsh", "--log-file=" + logPath})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	err := executeCommand(context.Background(), rootCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported shell "tcsh"`)
	assert.Nil(t, logger, "logger is closed and cleared even though RunE failed")

	// The next command opens a fresh logger.
	assert.NotNil(t, GetLogger())
	closeLogger()
}

func TestExecuteCommand_ClosesLogFileOnSuccess(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "csvdesk.log")
	t.Cleanup(func() { logFile = "" })

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"completion", "bash", "--log-file=" + logPath})
	var out bytes.Buffer
	rootCmd.SetOut(&out)

	require.NoError(t, executeCommand(context.Background(), rootCmd))
	assert.NotEmpty(t, out.String())
	assert.Nil(t, logger)

	_, err := os.Stat(filepath.Dir(logPath))
	assert.NoError(t, err, "log directory is created for --log-file")
}

package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Env: "test", Level: "debug", Console: &buf})
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("card", "a.png").Debug("measured")
	require.Contains(t, buf.String(), "measured")
	require.Contains(t, buf.String(), "a.png")

	require.Equal(t, logrus.InfoLevel, NewLogger(Options{Env: "test", Level: "bogus", Console: &buf}).GetLevel())
}

func TestNewLogger_NoFileInTestEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	logger := NewLogger(Options{Env: "test", File: file, Console: &buf})
	logger.Info("hello")

	_, err := os.Stat(file)
	require.True(t, os.IsNotExist(err))
}

func TestNewLogger_WritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	logger := NewLogger(Options{Env: "production", File: file, Console: &buf})
	logger.Info("hello file")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello file")
}

func TestRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	require.NotEqual(t, id, NewRunID())

	var buf bytes.Buffer
	logger := NewLogger(Options{Env: "test", Console: &buf})
	WithRunID(logger, id).Info("batch started")
	require.Contains(t, buf.String(), id)
}

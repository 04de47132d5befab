package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskboard/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	f := &logger.Formatter{SystemName: "taskboard"}
	entry := &logrus.Entry{
		Time:    time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "request rejected",
		Data:    logrus.Fields{"status": 404, "path": "/api/tasks"},
	}

	out, err := f.Format(entry)

	require.NoError(t, err)
	line := string(out)
	assert.Contains(t, line, "Date: 2024-05-06, Time: 07:08:09, ")
	assert.Contains(t, line, "Event Source: taskboard, Event Type: WARNING, Event ID: ")
	assert.Contains(t, line, "Message: request rejected, path=/api/tasks, status=404\n")
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskboard.log")

	log, err := logger.New(logger.Options{SystemName: "taskboard", Level: "info", File: path})
	require.NoError(t, err)
	log.Info("started")
	log.Debug("hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Message: started")
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(logger.Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_StdoutOnly(t *testing.T) {
	log, err := logger.New(logger.Options{Level: "debug"})
	require.NoError(t, err)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.WithField("task_id", "t1").Debug("task created")

	assert.Contains(t, buf.String(), "Event Type: DEBUG")
	assert.Contains(t, buf.String(), "task_id=t1")
	assert.Contains(t, buf.String(), "Location: logger_test.go:")
}

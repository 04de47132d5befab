// Package logger builds the process-wide logrus logger. Entries go to stdout
// and, when a file is configured, to a size-rotated log file.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Formatter writes one human-readable line per entry with a fresh event id.
type Formatter struct {
	SystemName string
}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	ts := entry.Time.UTC()
	fmt.Fprintf(b, "Date: %s, Time: %s, ", ts.Format("2006-01-02"), ts.Format("15:04:05"))
	fmt.Fprintf(b, "Event Source: %s, ", f.SystemName)
	fmt.Fprintf(b, "Event Type: %s, ", strings.ToUpper(entry.Level.String()))
	fmt.Fprintf(b, "Event ID: %s, ", uuid.New().String())
	fmt.Fprintf(b, "Message: %s", entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, ", %s=%v", k, entry.Data[k])
	}

	if entry.HasCaller() {
		fmt.Fprintf(b, ", Location: %s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

type Options struct {
	SystemName string
	Level      string
	File       string
}

// New returns a logger configured from opts. An unknown level is an error.
func New(opts Options) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&Formatter{SystemName: opts.SystemName})
	log.SetReportCaller(level >= logrus.DebugLevel)

	var out io.Writer = os.Stdout
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	log.SetOutput(out)
	return log, nil
}

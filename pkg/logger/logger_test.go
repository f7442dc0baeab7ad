package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{
			name: "info level",
			opts: Options{Level: "info"},
		},
		{
			name: "debug level",
			opts: Options{Level: "debug"},
		},
		{
			name:    "invalid level",
			opts:    Options{Level: "shouting"},
			wantErr: true,
		},
		{
			name: "empty level defaults to info",
			opts: Options{},
		},
		{
			name: "file output",
			opts: Options{Level: "info", File: filepath.Join(os.TempDir(), "xscraper-logger-test.log")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && log == nil {
				t.Error("New() returned nil logger")
			}

			if tt.opts.File != "" {
				os.Remove(tt.opts.File)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"fatal", zerolog.FatalLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"invalid", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func newBufferLogger(buf *bytes.Buffer) *zerologLogger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zlog := zerolog.New(buf).With().Timestamp().Logger()
	return &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	cases := []struct {
		name string
		call func(string)
	}{
		{"Debug", log.Debug},
		{"Info", log.Info},
		{"Warn", log.Warn},
		{"Error", log.Error},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			tc.call(tc.name + " message")
			if !strings.Contains(buf.String(), tc.name+" message") {
				t.Errorf("%s message not found in output", tc.name)
			}
		})
	}
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.WithField("handle", "someuser").Info("probe")

	output := buf.String()
	if !strings.Contains(output, "probe") {
		t.Error("message not found in output")
	}
	if !strings.Contains(output, `"handle":"someuser"`) {
		t.Error("field not found in output")
	}
}

func TestWithFieldsMerging(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.
		WithField("stage", "collect").
		WithFields(map[string]interface{}{
			"collected": 42,
			"resumed":   true,
		}).
		Info("progress")

	output := buf.String()
	for _, want := range []string{`"stage":"collect"`, `"collected":42`, `"resumed":true`, "progress"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output, got %s", want, output)
		}
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	if log.WithError(nil) != Logger(log) {
		t.Error("WithError(nil) should return the same logger")
	}

	log.WithError(&testError{msg: "socket closed"}).Error("request failed")

	output := buf.String()
	if !strings.Contains(output, "request failed") {
		t.Error("message not found in output")
	}
	if !strings.Contains(output, "socket closed") {
		t.Error("error message not found in output")
	}
}

func TestInfoWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.InfoWithFields("run complete", map[string]interface{}{
		"handle":    "someuser",
		"collected": 10,
	})

	output := buf.String()
	if !strings.Contains(output, "run complete") {
		t.Error("message not found in output")
	}
	if !strings.Contains(output, `"handle":"someuser"`) {
		t.Error("handle field not found in output")
	}
	if !strings.Contains(output, `"collected":10`) {
		t.Error("collected field not found in output")
	}
}

func TestGlobalLogger(t *testing.T) {
	if err := Initialize(Options{Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if GetLogger() == nil {
		t.Error("GetLogger() returned nil")
	}

	// Convenience functions must not panic.
	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	WithField("key", "value").Info("with field")
	WithFields(map[string]interface{}{"k1": "v1", "k2": "v2"}).Info("with fields")
	WithError(&testError{msg: "oops"}).Error("with error")
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

package config_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/pdfsaver/pkg/cli/config"
)

func TestLogger_Configure_Levels(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"DEBUG", false},
		{"info", false},
		{"Info", false},
		{"warn", false},
		{"error", false},
		{"ERROR", false},
		{"", true},
		{"verbose", true},
		{"warning!", true},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			c := &config.Logger{Level: tt.level, Writer: &bytes.Buffer{}}

			logger, err := c.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				gt.Value(t, logger).Nil()
				return
			}
			gt.NoError(t, err)
			gt.Value(t, logger).NotNil()
		})
	}
}

func TestLogger_Configure_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "warn", JSON: true, Writer: &buf}).Configure()
	gt.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	gt.False(t, bytes.Contains(buf.Bytes(), []byte("hidden")))
	gt.True(t, bytes.Contains(buf.Bytes(), []byte("shown")))
}

func TestLogger_Configure_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "info", JSON: true, Writer: &buf}).Configure()
	gt.NoError(t, err)

	logger.Info("saved", "filename", "offer.pdf")

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	gt.Value(t, record["msg"]).Equal("saved")
	gt.Value(t, record["filename"]).Equal("offer.pdf")
}

func TestLogger_Configure_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "debug", Writer: &buf}).Configure()
	gt.NoError(t, err)

	logger.Debug("console output")
	gt.True(t, bytes.Contains(buf.Bytes(), []byte("console output")))
}

func TestLogger_Configure_NoColorOnPipe(t *testing.T) {
	r, w, err := os.Pipe()
	gt.NoError(t, err)
	defer r.Close()

	logger, err := (&config.Logger{Level: "info", Writer: w}).Configure()
	gt.NoError(t, err)
	logger.Info("piped output")
	gt.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	gt.NoError(t, err)
	gt.String(t, string(out)).Contains("piped output")
	gt.False(t, strings.Contains(string(out), "\x1b["))
}

func TestLogger_Configure_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "info", JSON: true, Writer: &buf}).Configure()
	gt.NoError(t, err)

	logger.Info("configuration", "saver", config.Saver{Token: "tok-123456", Language: "en"})
	logger.Info("request", "authorization", "Bearer tok-123456")

	gt.False(t, bytes.Contains(buf.Bytes(), []byte("tok-123456")))
}

func TestLogger_Flags(t *testing.T) {
	names := flagNames((&config.Logger{}).Flags())
	gt.True(t, names["log-level"])
	gt.True(t, names["log-json"])
	gt.Number(t, len(names)).Equal(2)
}

package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.weft.build/weft/internal/adapters/logger"
)

func TestLogger_Info_WritesToRedirectedOutput(t *testing.T) {
	l := logger.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.Info("workspace loaded")
	assert.Contains(t, buf.String(), "workspace loaded")
}

func TestLogger_Warn_WritesToRedirectedOutput(t *testing.T) {
	l := logger.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.Warn("cache miss")
	assert.Contains(t, buf.String(), "cache miss")
	assert.Contains(t, buf.String(), "WARN")
}

func TestLogger_Error_IncludesErrorDetail(t *testing.T) {
	l := logger.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.Error(errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/runabol/mountgate/conf"
	"github.com/stretchr/testify/assert"
)

func TestSetupLoggingDefaults(t *testing.T) {
	assert.NoError(t, conf.LoadConfig())
	assert.NoError(t, SetupLogging())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetupLoggingInvalidLevel(t *testing.T) {
	t.Setenv("MOUNTGATE_LOGGING_LEVEL", "loud")
	assert.NoError(t, conf.LoadConfig())
	assert.Error(t, SetupLogging())
}

func TestSetupLoggingInvalidFormat(t *testing.T) {
	t.Setenv("MOUNTGATE_LOGGING_FORMAT", "xml")
	assert.NoError(t, conf.LoadConfig())
	assert.Error(t, SetupLogging())
}

func TestZerologWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)

	w := NewZerologWriter(&logger, "mysql", zerolog.InfoLevel)
	p := []byte("==> Successfully started `mysql`\n\n")
	n, err := w.Write(p)
	assert.NoError(t, err)
	assert.Equal(t, len(p), n)
	assert.Contains(t, buf.String(), `"service":"mysql"`)
	assert.Contains(t, buf.String(), "Successfully started")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestZerologWriterPartialLines(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)

	w := NewZerologWriter(&logger, "mysql", zerolog.InfoLevel)
	_, err := w.Write([]byte("==> Successfully "))
	assert.NoError(t, err)
	assert.Empty(t, buf.String())
	_, err = w.Write([]byte("started `mysql`\nError: still"))
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Successfully started `mysql`")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))

	w.Flush()
	assert.Contains(t, buf.String(), "Error: still")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestCtx(t *testing.T) {
	assert.Equal(t, &log.Logger, Ctx(context.Background()))

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).With().Str("run", "abc").Logger()
	ctx := logger.WithContext(context.Background())
	Ctx(ctx).Info().Msg("hello")
	assert.Contains(t, buf.String(), `"run":"abc"`)
}

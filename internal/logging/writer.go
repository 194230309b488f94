package logging

import (
	"bytes"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ZerologWriter is a writer that adapts the io.Writer interface to the zerolog.Logger.
// Each complete line becomes one log event tagged with the service name. A
// trailing partial line is held until the next Write or Flush.
type ZerologWriter struct {
	logger  *zerolog.Logger
	service string
	level   zerolog.Level
	mu      sync.Mutex
	buf     bytes.Buffer
}

func NewZerologWriter(logger *zerolog.Logger, service string, level zerolog.Level) *ZerologWriter {
	return &ZerologWriter{
		logger:  logger,
		service: service,
		level:   level,
	}
}

func (zw *ZerologWriter) Write(p []byte) (n int, err error) {
	zw.mu.Lock()
	defer zw.mu.Unlock()
	zw.buf.Write(p)
	for {
		i := bytes.IndexByte(zw.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(zw.buf.Next(i + 1))
		zw.emit(line)
	}
	return len(p), nil
}

// Flush logs whatever partial line is still buffered.
func (zw *ZerologWriter) Flush() {
	zw.mu.Lock()
	defer zw.mu.Unlock()
	if zw.buf.Len() > 0 {
		zw.emit(zw.buf.String())
		zw.buf.Reset()
	}
}

func (zw *ZerologWriter) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	zw.logger.WithLevel(zw.level).Str("service", zw.service).Msg(line)
}

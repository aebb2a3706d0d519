package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger. APP_ENV=dev (or development) writes a
// console format, anything else writes JSON. When logstashAddr is set every
// line is also shipped to Logstash; the returned closer releases that
// connection and is never nil.
func New(env, logstashAddr string) (zerolog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	if env == "dev" || env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if logstashAddr != "" {
		if shipper, err := NewLogstashWriter(logstashAddr); err == nil {
			out = zerolog.MultiLevelWriter(out, shipper)
			closer = shipper
		}
	}

	logger := zerolog.New(out).With().Timestamp().Str("service", "dogatlas-api").Logger()
	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

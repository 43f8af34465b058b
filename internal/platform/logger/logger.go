// Package logger provides a configured zerolog logger.
package logger

import (
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

// New returns a JSON logger on stdout tagged with the service name.
// Error events logged with .Stack() carry a stack trace.
func New(serviceName string, level zerolog.Level) zerolog.Logger {
	return NewWithWriter(os.Stdout, serviceName, level)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(w io.Writer, serviceName string, level zerolog.Level) zerolog.Logger {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}

	return zerolog.New(w).Level(level).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

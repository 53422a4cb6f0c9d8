package wsd

import (
	"io"
	stdlog "log"
)

var logger *stdlog.Logger

// SetLogger redirects the package's logging to the given writer. Output is
// prefixed so it can be told apart from the other packages' logging.
func SetLogger(w io.Writer) {
	logger = stdlog.New(w, "[wsd] ", stdlog.Flags())
}

// Package logging is off until a caller opts in through SetLogger.
type nullWriter struct{}

func (nullWriter) Write(data []byte) (int, error) {
	return len(data), nil
}

func init() {
	SetLogger(nullWriter{})
}

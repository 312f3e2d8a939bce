package internal

import (
	"io"

	"github.com/sirupsen/logrus"
)

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}()

// Logger returns log, or a logger that drops everything when log is nil.
func Logger(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return discard
	}
	return log
}

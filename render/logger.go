package render

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

type loggerBox struct {
	l logrus.FieldLogger
}

var loggerPtr atomic.Pointer[loggerBox]

func newNopLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

func init() {
	loggerPtr.Store(&loggerBox{l: newNopLogger()})
}

// SetLogger configures logging for the render queue and its workers. By
// default nothing is logged. Pass nil to silence logging again.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(&loggerBox{l: l})
}

// Logger returns the logger in use.
func Logger() logrus.FieldLogger {
	return loggerPtr.Load().l
}

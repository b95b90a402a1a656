package demo

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// newLogger returns a logrus logger configured the way lxd-export's
// SafeLogger configures its own: text formatter, full timestamps, tagged
// with a per-run correlation ID so concurrent demo invocations can be told
// apart in shared log output.
func newLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger.WithField("run_id", uuid.NewString())
}

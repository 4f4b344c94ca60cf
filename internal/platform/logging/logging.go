package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger: JSON in production, text
// elsewhere. An unparsable level falls back to info.
func Setup(out io.Writer, level string, production bool) *logrus.Logger {
	l := logrus.StandardLogger()
	Configure(l, out, level, production)
	return l
}

func Configure(l *logrus.Logger, out io.Writer, level string, production bool) {
	if out != nil {
		l.SetOutput(out)
	}

	if production {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
}

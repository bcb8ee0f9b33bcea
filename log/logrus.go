package log

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"cwl2slack/env"
	"cwl2slack/internal/constants"
)

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

func init() {
	Logger()
}

func initLogger() {
	logger = logrus.New()
	// CloudWatch indexes JSON lines, so production keeps the JSON formatter.
	if env.GetString("APP_ENV", constants.PRODUCTION) == constants.PRODUCTION {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger.SetOutput(os.Stdout)
	SetLevel(env.GetString("LOG_LEVEL", "info"))
}

// Logger ...
func Logger() *logrus.Logger {
	if logger == nil {
		loggerOnce.Do(func() {
			initLogger()
		})
	}
	return logger
}

// SetLevel parses lvl and applies it, falling back to info on garbage.
func SetLevel(lvl string) {
	parsed, err := logrus.ParseLevel(lvl)
	if err != nil {
		Logger().Warnln("Invalid log level:", lvl)
		Logger().SetLevel(logrus.InfoLevel)
		return
	}
	Logger().SetLevel(parsed)
}

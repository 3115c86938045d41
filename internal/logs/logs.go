package logs

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aws/smithy-go/logging"
	"github.com/lmittmann/tint"
)

const logFile = "aperture.log"

var (
	level    = new(slog.LevelVar)
	fileOnce sync.Once
	fileLog  *slog.Logger
)

// SetLevel adjusts the console log level at runtime.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// AwsCliLogger bridges the AWS SDK wire logs into a JSON slog file so raw
// request/response traffic never hits the console.
func AwsCliLogger() logging.Logger {
	return logging.LoggerFunc(func(classification logging.Classification, format string, v ...interface{}) {
		fileOnce.Do(func() {
			f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
			if err != nil {
				fileLog = slog.New(slog.NewJSONHandler(os.Stderr, nil))
				return
			}

			opts := &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			}
			fileLog = slog.New(slog.NewJSONHandler(f, opts))
		})

		msg := fmt.Sprintf(format, v...)
		switch classification {
		case logging.Warn:
			fileLog.Warn(msg)
		default:
			fileLog.Debug(msg)
		}
	})
}

func ConsoleLogger() *slog.Logger {
	w := os.Stderr

	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	// set global logger with custom options
	slog.SetDefault(logger)
	return logger
}

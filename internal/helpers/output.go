package helpers

import (
	l "github.com/praetorian-inc/aperture/internal/logs"
)

func PrintMessage(message string) {
	logger := l.ConsoleLogger()
	logger.Info(message)
}

package di

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// ProvideLogger creates a new zerolog.Logger configured for the runtime
// environment. In Lambda (when AWS_LAMBDA_RUNTIME_API is set), it uses
// JSON format. In terminal/CLI, it uses console format with pretty printing.
func ProvideLogger() zerolog.Logger {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		return zerolog.New(os.Stdout).
			Level(zerolog.InfoLevel).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}

// ProvideContext returns a background context carrying the logger.
func ProvideContext(logger zerolog.Logger) context.Context {
	return logger.WithContext(context.Background())
}

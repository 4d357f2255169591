package logger

import (
	"go.uber.org/zap"
)

// New builds the service logger: JSON output in production, console output
// with debug level everywhere else.
func New(environment string) (*zap.SugaredLogger, error) {
	var (
		base *zap.Logger
		err  error
	)
	if environment == "production" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return base.Sugar(), nil
}

// Nop returns a logger that discards everything, for tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

package logger

import (
	"game2048_backend/internal/service/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	AccessLogger = zap.NewNop()
	DBLogger     = zap.NewNop()
	MailLogger   = zap.NewNop()
)

func newFileLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func InitLoggers(cfg config.LogConfig) error {
	var err error
	AccessLogger, err = newFileLogger(cfg.AccessPath)
	if err != nil {
		return err
	}

	DBLogger, err = newFileLogger(cfg.DBPath)
	if err != nil {
		return err
	}

	MailLogger, err = newFileLogger(cfg.MailPath)
	if err != nil {
		return err
	}

	return nil
}

func SyncLoggers() error {
	for _, l := range []*zap.Logger{AccessLogger, DBLogger, MailLogger} {
		if err := l.Sync(); err != nil {
			return err
		}
	}
	return nil
}

package test

import (
	"bytes"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger returns a debug level logger writing timestamp free console lines into the returned buffer,
// so tests can compare the log output verbatim.
func Logger() (*zap.Logger, *bytes.Buffer) {
	output := &bytes.Buffer{}
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(output), zap.DebugLevel)
	return zap.New(core), output
}

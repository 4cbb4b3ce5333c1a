package log

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel accepts the zap level names, e.g. "debug" or "warn".
func ParseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, errors.Wrapf(err, "invalid log level %q", s)
	}
	return level, nil
}

func New(level zapcore.Level, encoding Encoding) (*zap.Logger, error) {
	if !SupportedEncodings.Contains(encoding) {
		return nil, InvalidEncodingError{encoding: encoding}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.EpochNanosTimeEncoder

	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = zap.NewAtomicLevelAt(level)
	loggerCfg.EncoderConfig = encCfg
	loggerCfg.Encoding = encoding.String()

	log, err := loggerCfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}

	return log, nil
}

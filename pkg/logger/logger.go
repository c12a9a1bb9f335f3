package logger

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the configuration for the logger.
type Config struct {
	LogLevel    string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxSize     int    `mapstructure:"max_size" validate:"gte=0"`    // Megabytes
	MaxBackups  int    `mapstructure:"max_backups" validate:"gte=0"` // Rotated files kept
	MaxAge      int    `mapstructure:"max_age" validate:"gte=0"`     // Days
	Compress    bool   `mapstructure:"compress"`
}

var validate = validator.New()

// New builds a zap logger from cfg.
// When FileLogName is set, output goes to a size-rotated file; otherwise stdout.
func New(cfg Config) (*zap.Logger, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid logger config")
	}

	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, errors.Wrapf(err, "failed to parse log level %q", cfg.LogLevel)
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	var sink zapcore.WriteSyncer
	if cfg.FileLogName != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FileLogName,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	} else {
		sink = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller()), nil
}

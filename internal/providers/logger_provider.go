package providers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"smd/internal/structures"
	"time"

	"github.com/rs/zerolog"
)

type TypeEnum string

const (
	TypeApp     = "app"
	TypeGet     = "get"
	TypePost    = "post"
	TypeDelete  = "delete"
	TypeGateway = "gateway"
	TypeSync    = "sync"
)

// GetLogTypeByRequestType maps an HTTP method to a log category.
func GetLogTypeByRequestType(method string) TypeEnum {
	switch method {
	case http.MethodPost:
		return TypePost
	case http.MethodDelete:
		return TypeDelete
	default:
		return TypeGet
	}
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	log  zerolog.Logger
	file *os.File
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, err
	}
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	fileName := filepath.Join(conf.Logger.Dir, "smd_"+time.Now().Format("2006-01-02")+".log")
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
	if err != nil {
		return nil, err
	}

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log := zerolog.New(io.MultiWriter(console, file)).Level(level).With().Timestamp().Logger()

	return &LogProvider{log: log, file: file}, nil
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.log.Error().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.log.Warn().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.log.Debug().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.log.Info().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.log.Fatal().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

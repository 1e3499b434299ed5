package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}).With().Timestamp().Logger()

const (
	defaultLogLevel = InfoLevel
	defaultLogPath  = "/data/logs"
	timeFormat      = "2006-01-02 15:04:05"
	FileName        = "rangekit.log"
	DebugLevel      = "debug"
	InfoLevel       = "info"
	WarnLevel       = "warn"
	ErrorLevel      = "error"
)

func Init(level, path string) {
	SetLevel(level)
	// log file
	if path == "" {
		path = defaultLogPath
	}
	logFile := GetFullLogPath(path, FileName)
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat}
	fileWriter, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		panic(fmt.Sprintf("open log file failed: %s", err))
	}
	multi := zerolog.MultiLevelWriter(consoleWriter, fileWriter)
	logger = zerolog.New(multi).With().Timestamp().Logger()
}

// InitWriter 只输出到指定 writer，命令行和测试使用
func InitWriter(level string, w io.Writer) {
	SetLevel(level)
	logger = zerolog.New(w).With().Timestamp().Logger()
}

func SetLevel(level string) {
	if level == "" {
		level = defaultLogLevel
	}
	switch level {
	case DebugLevel:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case InfoLevel:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case WarnLevel:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case ErrorLevel:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		panic(fmt.Sprintf("unknown log level: %s", level))
	}
}

// Logger returns the process logger for structured fields.
func Logger() *zerolog.Logger {
	return &logger
}

func Debugf(format string, v ...any) {
	logger.Debug().Msgf(format, v...)
}

func Infof(format string, v ...any) {
	logger.Info().Msgf(format, v...)
}

func Warnf(format string, v ...any) {
	logger.Warn().Msgf(format, v...)
}

func Errorf(format string, v ...any) {
	logger.Error().Msgf(format, v...)
}

func GetFullLogPath(path, fileName string) string {
	if HasSuffix(path, "/") {
		return path + fileName
	}
	return path + "/" + fileName
}

func HasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

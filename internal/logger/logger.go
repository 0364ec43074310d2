package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the global zerolog instance: human-readable console output
// plus a size-rotated JSON log file.
func Init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	fileWriter := &lumberjack.Logger{
		Filename:   "logs/homequest.log",
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	log.Logger = zerolog.New(io.MultiWriter(consoleWriter, fileWriter)).
		With().
		Timestamp().
		Caller().
		Logger()
}

package logging

import (
	"io"
	"log"
	"os"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelNone
)

var (
	debug   *log.Logger
	info    *log.Logger
	warning *log.Logger
	errlog  *log.Logger
)

func init() {
	flags := log.Ldate | log.Ltime | log.LUTC
	debug = log.New(io.Discard, "D ", flags)
	info = log.New(io.Discard, "I ", flags)
	warning = log.New(io.Discard, "W ", flags)
	errlog = log.New(io.Discard, "E ", flags)

	SetLevel(LevelWarning)
}

func SetLevel(l Level) {
	switch l {
	case LevelDebug:
		debug.SetOutput(os.Stderr)
		info.SetOutput(os.Stderr)
		warning.SetOutput(os.Stderr)
		errlog.SetOutput(os.Stderr)
	case LevelInfo:
		debug.SetOutput(io.Discard)
		info.SetOutput(os.Stderr)
		warning.SetOutput(os.Stderr)
		errlog.SetOutput(os.Stderr)
	case LevelWarning:
		debug.SetOutput(io.Discard)
		info.SetOutput(io.Discard)
		warning.SetOutput(os.Stderr)
		errlog.SetOutput(os.Stderr)
	case LevelError:
		debug.SetOutput(io.Discard)
		info.SetOutput(io.Discard)
		warning.SetOutput(io.Discard)
		errlog.SetOutput(os.Stderr)
	case LevelNone:
		debug.SetOutput(io.Discard)
		info.SetOutput(io.Discard)
		warning.SetOutput(io.Discard)
		errlog.SetOutput(io.Discard)
	}
}

func Debug(msg string, v ...interface{}) {
	debug.Printf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	info.Printf(msg, v...)
}

func Warning(msg string, v ...interface{}) {
	warning.Printf(msg, v...)
}

func Error(msg string, v ...interface{}) {
	errlog.Printf(msg, v...)
}

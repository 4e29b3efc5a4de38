package pkg

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileKey names the env var that, when set, mirrors the log into a
// rotating file.
const LogFileKey = "LCD_LOG_FILE"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogging prefixes log lines with the tool name and adds the rotating
// log file when LCD_LOG_FILE is set. Close the result on exit.
func SetupLogging(tool string) io.Closer {
	log.SetPrefix("[" + tool + "] ")
	log.SetFlags(log.LstdFlags)
	path := os.Getenv(LogFileKey)
	if path == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.SetOutput(io.MultiWriter(os.Stderr, lj))
	return lj
}

// Bootstrap loads the first env file found and sets up logging.
func Bootstrap(tool string) io.Closer {
	path, err := LoadEnvFile(DefaultEnvPaths()...)
	closer := SetupLogging(tool)
	switch {
	case err != nil:
		log.Printf("env file: %v", err)
	case path != "":
		log.Printf("loaded %s", path)
	}
	return closer
}

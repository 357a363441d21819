package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// LogWriter receives application and database logs. It defaults to stdout
// and fans out to the log file once InitLogging has run.
var LogWriter io.Writer = os.Stdout

// LogFilePath resolves the backend log file, honoring LOG_DIR when set.
func LogFilePath() string {
	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = "logs"
	}
	return filepath.Join(dir, "editorial-api.log")
}

// InitLogging opens the log file and points the standard logger at it. When
// the file cannot be opened the server still starts, logging to stdout only.
func InitLogging() (*os.File, io.Writer) {
	path := LogFilePath()
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		log.SetOutput(LogWriter)
		return nil, LogWriter
	}

	LogWriter = io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(LogWriter)
	return logFile, LogWriter
}

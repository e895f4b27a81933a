package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
)

const (
	defaultLogDir     = "./logs"
	defaultLogFile    = "xo.log"
	defaultMaxSizeMB  = 100
	defaultMaxAgeDays = 7
)

// Options configures the rotating file sink. Zero values fall back to the
// LOGFILE* environment variables and then to built-in defaults.
type Options struct {
	Dir        string
	File       string
	MaxSizeMB  int
	MaxAgeDays int
	Debug      bool
}

var (
	mu               sync.RWMutex
	logger           = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
	lumberjackLogger *lumberjack.Logger
	debugEnabled     = os.Getenv("LOG_DEBUG") != ""
)

// Init switches output from stderr to a rotating log file.
func Init(opts Options) {
	if opts.Dir == "" {
		opts.Dir = defaultLogDir
	}
	if opts.File == "" {
		opts.File = getLogFilename()
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = getEnvInt("LOGFILE_MAX_SIZE_MB", defaultMaxSizeMB)
	}
	if opts.MaxAgeDays <= 0 {
		opts.MaxAgeDays = getEnvInt("LOGFILE_MAX_AGE_DAYS", defaultMaxAgeDays)
	}

	lj := &lumberjack.Logger{
		Filename: filepath.Join(opts.Dir, opts.File),
		MaxSize:  opts.MaxSizeMB,
		MaxAge:   opts.MaxAgeDays,
	}

	mu.Lock()
	defer mu.Unlock()
	if lumberjackLogger != nil {
		_ = lumberjackLogger.Close()
	}
	lumberjackLogger = lj
	logger = log.New(lj, "", log.Ldate|log.Ltime|log.Lmicroseconds)
	debugEnabled = debugEnabled || opts.Debug
}

// SetOutput redirects logging to w, closing any rotating file sink.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if lumberjackLogger != nil {
		_ = lumberjackLogger.Close()
		lumberjackLogger = nil
	}
	logger = log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds)
}

func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if lumberjackLogger == nil {
		return nil
	}
	err := lumberjackLogger.Close()
	lumberjackLogger = nil
	logger = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
	return err
}

func getLogFilename() string {
	if logFile := os.Getenv("LOGFILE"); logFile != "" {
		return logFile
	}
	return defaultLogFile
}

func getEnvInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func output(color, level, category string, content []interface{}) {
	message := fmt.Sprint(content...)
	coloredCategory := fmt.Sprintf("%s[%s][%s]%s", color, level, category, ColorReset)

	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Printf("%s: %s", coloredCategory, message)
}

func Info(category string, content ...interface{}) {
	output(ColorGreen, "INFO", category, content)
}

func Error(category string, content ...interface{}) {
	output(ColorRed, "ERROR", category, content)
}

func Warn(category string, content ...interface{}) {
	output(ColorYellow, "WARN", category, content)
}

func Debug(category string, content ...interface{}) {
	mu.RLock()
	enabled := debugEnabled
	mu.RUnlock()
	if !enabled {
		return
	}
	output(ColorBlue, "DEBUG", category, content)
}

// Errorf logs an error message and returns a formatted error
func Errorf(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	Error("ERROR", err.Error())
	return err
}

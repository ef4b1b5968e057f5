package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/gitassist/internal/config"
	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/logging"
)

//nolint:gochecknoglobals // The run log is opened once per process and closed at shutdown
var (
	runLog   *lumberjack.Logger
	runLogMu sync.Mutex
)

// zerologGlobalMu protects concurrent writes to the zerolog global logger.
var zerologGlobalMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// loggerSetup holds the common components needed to create a logger.
type loggerSetup struct {
	level   zerolog.Level
	hook    zerolog.Hook
	file    *lumberjack.Logger
	console io.Writer
}

func prepareLoggerSetup(verbose, quiet bool, logDir string) (*loggerSetup, error) {
	setup := &loggerSetup{
		level:   selectLevel(verbose, quiet),
		hook:    logging.NewSensitiveDataHook(),
		console: selectOutput(),
	}

	file, err := createRunLog(logDir)
	if err == nil {
		setup.file = file
	}
	return setup, err
}

func buildLogger(setup *loggerSetup, writer io.Writer) zerolog.Logger {
	return zerolog.New(writer).Level(setup.level).Hook(setup.hook).With().Timestamp().Logger()
}

// InitLogger creates the CLI logger.
//
// Log levels are set as follows:
//   - verbose=true: Debug level
//   - quiet=true: Warn level
//   - default: Info level
//
// Console output is human-readable on a TTY without NO_COLOR and JSON on
// stderr otherwise. Every entry is also appended to the run log under
// logDir; if that file cannot be opened the logger stays console-only.
func InitLogger(verbose, quiet bool, logDir string) zerolog.Logger {
	setup, err := prepareLoggerSetup(verbose, quiet, logDir)

	writer := setup.console
	if err == nil && setup.file != nil {
		runLogMu.Lock()
		runLog = setup.file
		runLogMu.Unlock()
		writer = zerolog.MultiLevelWriter(setup.console, logging.NewFilteringWriter(setup.file))
	}

	logger := buildLogger(setup, writer)
	setGlobalLogger(logger)
	if err != nil {
		logger.Warn().Err(err).Msg("run log unavailable, logging to console only")
	}
	return logger
}

// InitLoggerWithWriter creates a logger that writes only to w.
// This is primarily intended for testing purposes.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).Level(selectLevel(verbose, quiet)).Hook(logging.NewSensitiveDataHook()).With().Timestamp().Logger()
	setGlobalLogger(logger)
	return logger
}

// setGlobalLogger points the zerolog/log package at the CLI logger.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = cliLogger
}

// RotateRunLog starts a fresh run log, keeping the previous one as a backup.
// An empty log is left alone so repeated menu choices do not pile up
// empty backups.
func RotateRunLog() error {
	runLogMu.Lock()
	defer runLogMu.Unlock()

	if runLog == nil {
		return nil
	}
	if info, err := os.Stat(runLog.Filename); err != nil || info.Size() == 0 {
		return nil
	}
	if err := runLog.Rotate(); err != nil {
		return fmt.Errorf("rotate run log: %w", err)
	}
	return nil
}

// CloseLogFile closes the run log if it was opened.
func CloseLogFile() {
	runLogMu.Lock()
	defer runLogMu.Unlock()

	if runLog != nil {
		_ = runLog.Close()
		runLog = nil
	}
}

func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// createRunLog opens the rotating run log inside logDir.
func createRunLog(logDir string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.RunLogFileName),
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}, nil
}

// LogFilePath returns the run log location for workDir.
func LogFilePath(workDir string) string {
	return filepath.Join(workDir, config.LogDir(), constants.RunLogFileName)
}

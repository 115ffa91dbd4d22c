// Package log provides the logger used by vrbuild commands and packages.
package log

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	errorPrefix = color.New(color.FgRed).Sprint("ERROR: ")
	warnPrefix  = color.New(color.FgYellow).Sprint("WARN: ")
)

// Logger writes messages to an Output.
// Debug messages are discarded unless debugging is enabled.
type Logger struct {
	debugEnabled bool

	output     Output
	outputLock sync.Mutex
}

// Output is where a Logger writes its messages to.
type Output interface {
	Printf(format string, v ...any)
	Println(v ...any)
	Fatalf(format string, v ...any)
	Fatalln(v ...any)
}

// StdLogger is the logger used by the package level functions.
var StdLogger = New(false)

// New returns a Logger that writes to stderr.
func New(debugEnabled bool) *Logger {
	return &Logger{
		debugEnabled: debugEnabled,
		output:       log.New(os.Stderr, "", 0),
	}
}

// EnableDebug enables or disables debug messages.
func (l *Logger) EnableDebug(enabled bool) {
	l.outputLock.Lock()
	defer l.outputLock.Unlock()

	l.debugEnabled = enabled
}

// DebugEnabled returns true if debug messages are printed.
func (l *Logger) DebugEnabled() bool {
	l.outputLock.Lock()
	defer l.outputLock.Unlock()

	return l.debugEnabled
}

// Debugln logs a debug message if debugging is enabled.
func (l *Logger) Debugln(v ...any) {
	if !l.DebugEnabled() {
		return
	}

	l.GetOutput().Println(v...)
}

// Debugf logs a debug message if debugging is enabled.
func (l *Logger) Debugf(format string, v ...any) {
	if !l.DebugEnabled() {
		return
	}

	l.GetOutput().Printf(format, v...)
}

// Warnf logs a message prefixed with WARN.
func (l *Logger) Warnf(format string, v ...any) {
	l.GetOutput().Printf(warnPrefix+format, v...)
}

// Errorln logs a message prefixed with ERROR.
func (l *Logger) Errorln(v ...any) {
	if len(v) != 0 {
		v[0] = fmt.Sprintf("%s%v", errorPrefix, v[0])
	}

	l.GetOutput().Println(v...)
}

// Errorf logs a message prefixed with ERROR.
func (l *Logger) Errorf(format string, v ...any) {
	l.GetOutput().Printf(errorPrefix+format, v...)
}

// Fatalln logs a message prefixed with ERROR and terminates the application.
func (l *Logger) Fatalln(v ...any) {
	if len(v) != 0 {
		v[0] = fmt.Sprintf("%s%v", errorPrefix, v[0])
	}

	l.GetOutput().Fatalln(v...)
}

// Fatalf logs a message prefixed with ERROR and terminates the application.
func (l *Logger) Fatalf(format string, v ...any) {
	l.GetOutput().Fatalf(errorPrefix+format, v...)
}

// GetOutput returns the current output of the logger.
func (l *Logger) GetOutput() Output {
	l.outputLock.Lock()
	defer l.outputLock.Unlock()

	return l.output
}

// SetOutput changes the output of the logger.
func (l *Logger) SetOutput(o Output) {
	l.outputLock.Lock()
	defer l.outputLock.Unlock()

	l.output = o
}

// DebugEnabled returns true if StdLogger prints debug messages.
func DebugEnabled() bool {
	return StdLogger.DebugEnabled()
}

// Debugln logs a debug message via StdLogger.
func Debugln(v ...any) {
	StdLogger.Debugln(v...)
}

// Debugf logs a debug message via StdLogger.
func Debugf(format string, v ...any) {
	StdLogger.Debugf(format, v...)
}

// Warnf logs a warning via StdLogger.
func Warnf(format string, v ...any) {
	StdLogger.Warnf(format, v...)
}

// Errorln logs an error via StdLogger.
func Errorln(v ...any) {
	StdLogger.Errorln(v...)
}

// Errorf logs an error via StdLogger.
func Errorf(format string, v ...any) {
	StdLogger.Errorf(format, v...)
}

// Fatalln logs an error via StdLogger and terminates the application.
func Fatalln(v ...any) {
	StdLogger.Fatalln(v...)
}

// Fatalf logs an error via StdLogger and terminates the application.
func Fatalf(format string, v ...any) {
	StdLogger.Fatalf(format, v...)
}

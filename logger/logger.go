package logger

import (
	"log"
)

// Logger is the printf style logger used across go-storecfg.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

var LoggerEnabled = true

type DefaultLogger struct {
	name string
}

func NewDefaultLogger(name string) *DefaultLogger {
	return &DefaultLogger{name: name}
}

func (d *DefaultLogger) Debug(format string, args ...any) {
	d.print("DEBUG", format, args)
}

func (d *DefaultLogger) Info(format string, args ...any) {
	d.print("INFO", format, args)
}

func (d *DefaultLogger) Warn(format string, args ...any) {
	d.print("WARN", format, args)
}

func (d *DefaultLogger) Error(format string, args ...any) {
	d.print("ERROR", format, args)
}

func (d *DefaultLogger) print(level, format string, args []any) {
	if !LoggerEnabled {
		return
	}
	log.Printf("["+level+"] "+d.name+" | "+format+"\n", args...)
}

type nop struct{}

// Nop discards everything.
func Nop() Logger { return nop{} }

func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}

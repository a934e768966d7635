package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type jsonLogger struct {
	service  string
	hostname string
	log      *logrus.Logger
}

// New builds a JSON logger writing to stdout. Unknown levels fall back to info.
func New(service, level string) Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.999999999Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: FieldTimestamp,
			logrus.FieldKeyMsg:  FieldMessage,
		},
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		l.Warnf("Invalid log level '%s', using default: %s", level, lvl.String())
	}
	l.SetLevel(lvl)

	return FromLogrus(service, l)
}

// FromLogrus wraps an existing logrus logger.
func FromLogrus(service string, l *logrus.Logger) Logger {
	hostname, _ := os.Hostname()
	return &jsonLogger{
		service:  service,
		hostname: hostname,
		log:      l,
	}
}

// Nop discards everything.
func Nop() Logger {
	l := logrus.New()
	l.SetOutput(discard{})
	l.SetLevel(logrus.PanicLevel)
	return FromLogrus("nop", l)
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.entry(action, requestID, details).Info(message)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.entry(action, requestID, details).Debug(message)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	e := l.entry(action, requestID, details)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(message)
}

func (l *jsonLogger) entry(action, requestID string, details map[string]interface{}) *logrus.Entry {
	fields := logrus.Fields{
		FieldService:  l.service,
		FieldHostname: l.hostname,
		FieldAction:   action,
	}
	if requestID != "" {
		fields[FieldRequestID] = requestID
	}
	if len(details) > 0 {
		fields[FieldDetails] = details
	}
	return l.log.WithFields(fields)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

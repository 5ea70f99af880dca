package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger represents the application logger
type Logger struct {
	*logrus.Logger
	config LogConfig
}

// LogConfig contains logger configuration
type LogConfig struct {
	Level         string
	Format        string // "json" or "text"
	LogToFile     bool
	LogFilePath   string
	AttemptLogDir string
}

// NewLogger creates a new logger instance
func NewLogger(config LogConfig) (*Logger, error) {
	log := logrus.New()

	// Set log level
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", config.Level, err)
	}
	log.SetLevel(level)

	log.SetOutput(os.Stdout)

	// Set log format based on configuration
	switch strings.ToLower(config.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			ForceColors:     true,
			DisableQuote:    true,
		})
	default:
		// Default to a custom text format with clear timestamp
		log.SetFormatter(&CustomFormatter{})
	}

	// Create attempt log directory if specified
	if config.AttemptLogDir != "" {
		if err := os.MkdirAll(config.AttemptLogDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create attempt log directory %s: %w", config.AttemptLogDir, err)
		}
	}

	if config.LogToFile && config.LogFilePath != "" {
		logDir := filepath.Dir(config.LogFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	return &Logger{
		Logger: log,
		config: config,
	}, nil
}

// CustomFormatter provides a clean, timestamped format for console output
type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("2006-01-02 15:04:05.000")
	level := strings.ToUpper(entry.Level.String())

	// Color coding for different log levels
	var levelColor string
	switch entry.Level {
	case logrus.DebugLevel:
		levelColor = "\033[36m" // Cyan
	case logrus.InfoLevel:
		levelColor = "\033[32m" // Green
	case logrus.WarnLevel:
		levelColor = "\033[33m" // Yellow
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		levelColor = "\033[31m" // Red
	default:
		levelColor = "\033[0m" // Reset
	}

	resetColor := "\033[0m"

	msg := fmt.Sprintf("%s [%s%s%s] %s",
		timestamp,
		levelColor,
		level,
		resetColor,
		entry.Message)

	// Add fields if present
	if len(entry.Data) > 0 {
		msg += " |"
		for key, value := range entry.Data {
			msg += fmt.Sprintf(" %s=%v", key, value)
		}
	}

	msg += "\n"
	return []byte(msg), nil
}

// WithField adds a field to the logger
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.Logger.WithField(key, value)
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	return l.Logger.WithFields(fields)
}

// WithError adds an error field to the logger
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithError(err)
}

// Mint-specific logging methods with timestamps

// LogStateRefresh logs a candy machine state refresh
func (l *Logger) LogStateRefresh(candyMachine string, redeemed, available uint64, active bool) {
	l.WithFields(logrus.Fields{
		"event":         "state_refresh",
		"candy_machine": candyMachine,
		"redeemed":      redeemed,
		"available":     available,
		"active":        active,
		"timestamp":     time.Now().Format(time.RFC3339),
	}).Info("🔄 State refreshed")
}

// LogMintAttempt logs when a mint attempt is submitted
func (l *Logger) LogMintAttempt(mintID, signature string, priceLamports uint64) {
	l.WithFields(logrus.Fields{
		"event":     "mint_attempt",
		"mint":      mintID,
		"signature": signature,
		"price":     priceLamports,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("🎯 Mint attempt submitted")
}

// LogMintSuccess logs a confirmed mint
func (l *Logger) LogMintSuccess(mintID, signature string, elapsed time.Duration) {
	l.WithFields(logrus.Fields{
		"event":      "mint_success",
		"mint":       mintID,
		"signature":  signature,
		"elapsed_ms": elapsed.Milliseconds(),
		"timestamp":  time.Now().Format(time.RFC3339),
	}).Info("✅ Mint confirmed")
}

// LogMintFailure logs a failed or timed-out mint attempt
func (l *Logger) LogMintFailure(mintID, signature, outcome, message string) {
	l.WithFields(logrus.Fields{
		"event":     "mint_failure",
		"mint":      mintID,
		"signature": signature,
		"outcome":   outcome,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Error("❌ Mint failed: " + message)
}

// LogWebSocketEvent logs WebSocket events
func (l *Logger) LogWebSocketEvent(eventType string, data interface{}) {
	l.WithFields(logrus.Fields{
		"event":     "websocket_" + eventType,
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Debug("🔌 WebSocket event")
}

// LogError logs general errors with context
func (l *Logger) LogError(component, operation string, err error, fields logrus.Fields) {
	logFields := logrus.Fields{
		"event":     "error",
		"component": component,
		"operation": operation,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	for k, v := range fields {
		logFields[k] = v
	}

	l.WithFields(logFields).WithError(err).Error("💥 Component error")
}

// LogStartup logs application startup information
func (l *Logger) LogStartup(version, network, rpcUrl, candyMachine string) {
	l.WithFields(logrus.Fields{
		"event":         "startup",
		"version":       version,
		"network":       network,
		"rpc_url":       rpcUrl,
		"candy_machine": candyMachine,
		"timestamp":     time.Now().Format(time.RFC3339),
	}).Info("🚀 Mint client starting up")
}

// LogShutdown logs application shutdown information
func (l *Logger) LogShutdown(reason string) {
	l.WithFields(logrus.Fields{
		"event":     "shutdown",
		"reason":    reason,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("🛑 Mint client shutting down")
}

// Context-aware logging methods

// WithComponent returns a logger with component context
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.WithField("component", component)
}

// WithTransaction returns a logger with transaction context
func (l *Logger) WithTransaction(signature string) *logrus.Entry {
	return l.WithField("transaction", signature)
}

// LogBalance logs wallet balance information
func (l *Logger) LogBalance(balanceSOL float64, balanceLamports uint64) {
	l.WithFields(logrus.Fields{
		"event":            "balance_check",
		"balance_sol":      balanceSOL,
		"balance_lamports": balanceLamports,
		"timestamp":        time.Now().Format(time.RFC3339),
	}).Info("💰 Wallet balance")
}

// LogConnection logs connection status
func (l *Logger) LogConnection(service, status string, details interface{}) {
	l.WithFields(logrus.Fields{
		"event":     "connection",
		"service":   service,
		"status":    status,
		"details":   details,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("🔗 Connection status")
}

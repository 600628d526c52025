package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the production JSON logger. LOG_LEVEL selects the level and
// LOG_FILE, when set, sends output to that file in addition to stderr so runs
// started by a scheduler without a console still leave a trail.
func NewLogger(runID string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = parseLogLevel(os.Getenv("LOG_LEVEL"))
	config.OutputPaths = outputPaths(os.Getenv("LOG_FILE"))
	config.InitialFields = map[string]interface{}{
		"service": "weathercache",
	}
	if runID != "" {
		config.InitialFields["run_id"] = runID
	}

	return config.Build()
}

func outputPaths(logFile string) []string {
	logFile = strings.TrimSpace(logFile)
	if logFile == "" {
		return []string{"stderr"}
	}
	return []string{"stderr", logFile}
}

func parseLogLevel(s string) zap.AtomicLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "WARN":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "ERROR":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}

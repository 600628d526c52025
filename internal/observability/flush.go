package observability

import (
	"go.uber.org/zap"
)

// FlushTelemetry writes the metrics textfile (when textfilePath is set) and
// syncs the logger. Call once before process exit, on success and failure.
// Sync errors are ignored; they are routine on console handles.
func FlushTelemetry(logger *zap.Logger, textfilePath string) error {
	var err error
	if textfilePath != "" {
		err = WriteTextfile(textfilePath)
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

package domain

// StageStatus is the lifecycle state of one pipeline stage as shown to the operator.
type StageStatus string

const (
	// StageStatusPending indicates the stage has not started.
	StageStatusPending StageStatus = "pending"
	// StageStatusRunning indicates the stage is processing items.
	StageStatusRunning StageStatus = "running"
	// StageStatusCompleted indicates the stage did its work.
	StageStatusCompleted StageStatus = "completed"
	// StageStatusCached indicates every item of the stage came from the build cache.
	StageStatusCached StageStatus = "cached"
	// StageStatusFailed indicates the stage stopped the build with an error.
	StageStatusFailed StageStatus = "failed"
	// StageStatusCanceled indicates the stage was stopped on request.
	StageStatusCanceled StageStatus = "canceled"
	// StageStatusSkipped indicates the stage is disabled for this build.
	StageStatusSkipped StageStatus = "skipped"
)

// IsTerminal reports whether the stage has finished one way or another.
func (s StageStatus) IsTerminal() bool {
	switch s {
	case StageStatusPending, StageStatusRunning:
		return false
	default:
		return true
	}
}

// StatusForCode maps the code a stage returned to its display status.
func StatusForCode(c Code) StageStatus {
	switch c {
	case CodeSuccess:
		return StageStatusCompleted
	case CodeSuccessCached:
		return StageStatusCached
	case CodeCanceled, CodeUnsavedChanges:
		return StageStatusCanceled
	default:
		return StageStatusFailed
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrTimeout         ErrorCode = "operation_timeout"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Persistence errors
	ErrIO            ErrorCode = "io_error"
	ErrSerialization ErrorCode = "serialization_error"
	ErrCorruptData   ErrorCode = "corrupt_data"
	ErrNotFound      ErrorCode = "not_found"

	// Registry errors
	ErrDuplicateName ErrorCode = "duplicate_name"
	ErrDirectory     ErrorCode = "directory_error"
	ErrLoad          ErrorCode = "load_error"

	// Data errors
	ErrValidation ErrorCode = "validation_error"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrTimeout:         "Operation timed out",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrInvalidConfig:   "Invalid configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read config file",
	ErrInvalidInterval: "Invalid interval value",
	ErrInvalidLogLevel: "Invalid log level",
	ErrIO:              "Filesystem operation failed",
	ErrSerialization:   "Failed to serialize data",
	ErrCorruptData:     "Persisted data is corrupt",
	ErrNotFound:        "Resource not found",
	ErrDuplicateName:   "Name already registered",
	ErrDirectory:       "Directory cannot be created or read",
	ErrLoad:            "Failed to load plugin",
	ErrValidation:      "Validation failed",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}

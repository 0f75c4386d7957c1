package history

import "codeberg.org/mutker/carconsole/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("history_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("history_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("history_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("history_schema_migration_failed")
	ErrTransactionFailed      = errors.ErrorCode("history_transaction_failed")

	// Storage Errors
	ErrStorageInit  = errors.ErrorCode("history_storage_init_failed")
	ErrStorageClose = errors.ErrorCode("history_storage_close_failed")
	ErrQuery        = errors.ErrorCode("history_query_failed")

	// Lookup and integrity
	ErrNotFound    = errors.ErrNotFound
	ErrCorruptData = errors.ErrCorruptData

	// Operation Errors
	ErrOperationTimeout = errors.ErrTimeout
)

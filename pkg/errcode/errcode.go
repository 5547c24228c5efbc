package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// Reference errors
	RefFormatError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBUnknownDatabaseError
	DBTableCheckError
	DBQueryError

	// Cache errors
	CacheOpenError
	CacheReadError
	CacheWriteError

	// Resolver errors
	ResolveNotFoundError
	ResolveSourceError

	// Snapshot errors
	SnapshotQueryError

	// Heal errors
	HealSchemaMismatchError
	HealSourceReadError
	HealUpsertError
	HealPartialWriteError

	// Expense errors
	ExpenseSumExceededError
	ExpenseTaxonomyError
	ExpenseWriteError

	// External API errors
	KanbanUnreachableError
	KanbanDecodeError
	DeclarationAPIError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError

	// Taxonomy errors
	TaxonomyConfigError

	// Backfill errors
	BackfillListError
	BackfillAllFailedError
)

package schema

// NaturalKeyIndexes are the uniqueness constraints GORM tags cannot
// express. Applied after AutoMigrate; all statements are idempotent.
//
// customs_documents needs two complementary unique indexes because
// a single filtered-OR constraint is not expressible: one covers rows
// without a version (NULL or empty string are equivalent), the other
// covers versioned rows.
//
// import_taxes pins a NULL amendment_number to -1 so NULL behaves as
// one distinct value instead of PostgreSQL's NULLs-are-distinct
// default.
var NaturalKeyIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_customs_documents_no_version
	ON customs_documents (document_type, document_number)
	WHERE document_version IS NULL OR document_version = ''`,

	`CREATE UNIQUE INDEX IF NOT EXISTS ux_customs_documents_versioned
	ON customs_documents (document_type, document_number, document_version)
	WHERE document_version IS NOT NULL AND document_version <> ''`,

	`CREATE UNIQUE INDEX IF NOT EXISTS ux_declared_values_natural_key
	ON declared_values
	(process_reference, document_number, document_type, value_kind, currency)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS ux_import_taxes_natural_key
	ON import_taxes
	(process_reference, document_number, document_type, tax_kind,
	COALESCE(amendment_number, -1))`,
}

// SupportIndexes speed up the assembler's per-process reads.
var SupportIndexes = []string{
	`CREATE INDEX IF NOT EXISTS ix_declared_values_process
	ON declared_values (process_reference)`,

	`CREATE INDEX IF NOT EXISTS ix_import_taxes_process
	ON import_taxes (process_reference)`,
}

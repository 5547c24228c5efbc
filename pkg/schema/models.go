// Package schema provides the PRIMARY database models for maikedb.
// Natural-key uniqueness that GORM cannot express (partial and
// expression indexes) lives in ddl.go and is applied after AutoMigrate.
package schema

import (
	"database/sql"
	"time"
)

// ImportProcess is the canonical row for one import process.
// At most one row exists per normalized process reference.
type ImportProcess struct {
	// ProcessReference is the natural key, e.g. "DMD.0090/25",
	// stored uppercase.
	ProcessReference string `gorm:"column:process_reference;primaryKey;size:20"`

	// InternalImportID is the opaque identifier from the upstream
	// system.
	InternalImportID sql.NullString `gorm:"column:internal_import_id;size:50"`

	// CENumber is the linked bill-of-lading number.
	CENumber sql.NullString `gorm:"column:ce_number;size:30"`

	// DINumber is the linked import-declaration number.
	DINumber sql.NullString `gorm:"column:di_number;size:20"`

	// DuimpNumber is the linked single-import-declaration number.
	DuimpNumber sql.NullString `gorm:"column:duimp_number;size:30"`

	ShipmentDate        sql.NullTime `gorm:"column:shipment_date"`
	ExpectedArrivalDate sql.NullTime `gorm:"column:expected_arrival_date"`
	ClearanceDate       sql.NullTime `gorm:"column:customs_clearance_date"`

	// Status is the free-text operational status.
	Status string `gorm:"column:status;size:120"`

	// SourceSystem records which store last wrote this row.
	SourceSystem string `gorm:"column:source_system;size:40"`

	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the PRIMARY table name.
func (ImportProcess) TableName() string { return "import_processes" }

// CustomsDocument is one DI, DUIMP or CE row. The natural key is
// (document_type, document_number, normalized version) where an empty
// version string and NULL are equivalent. ID is a deterministic UUIDv5
// derived from that key so upserts from any source collapse onto the
// same row.
type CustomsDocument struct {
	ID string `gorm:"column:id;primaryKey;type:uuid"`

	DocumentNumber string `gorm:"column:document_number;size:40;not null"`

	// DocumentType: DI, DUIMP or CE.
	DocumentType string `gorm:"column:document_type;size:10;not null"`

	// DocumentVersion is set for versioned DUIMPs; NULL or empty
	// otherwise.
	DocumentVersion sql.NullString `gorm:"column:document_version;size:10"`

	// ProcessReference is nullable until the document is linked.
	ProcessReference sql.NullString `gorm:"column:process_reference;size:20;index"`

	StatusText string `gorm:"column:status_text;size:200"`
	StatusCode string `gorm:"column:status_code;size:30"`

	// CustomsChannel: GREEN, RED or other clearance codes.
	CustomsChannel string `gorm:"column:customs_channel;size:20"`

	RegistrationDate sql.NullTime `gorm:"column:registration_date"`
	StatusDate       sql.NullTime `gorm:"column:status_date"`
	ClearanceDate    sql.NullTime `gorm:"column:clearance_date"`

	// SourceSystem is a free-text provenance tag.
	SourceSystem string `gorm:"column:source_system;size:40"`

	// RawPayload keeps the original source response verbatim.
	RawPayload string `gorm:"column:raw_payload;type:jsonb"`

	LastUpdated time.Time `gorm:"column:last_updated"`
}

// TableName returns the PRIMARY table name.
func (CustomsDocument) TableName() string { return "customs_documents" }

// DeclaredValue is one monetary line for a document. Natural key:
// (process_reference, document_number, document_type, value_kind,
// currency); upserts overwrite in place.
type DeclaredValue struct {
	ID uint `gorm:"column:id;primaryKey;autoIncrement"`

	ProcessReference string `gorm:"column:process_reference;size:20;not null"`
	DocumentNumber   string `gorm:"column:document_number;size:40;not null"`
	DocumentType     string `gorm:"column:document_type;size:10;not null"`

	// ValueKind: FOB, CIF, VMLD, VMLE, FREIGHT, INSURANCE.
	ValueKind string `gorm:"column:value_kind;size:20;not null"`

	// Currency is the ISO code, e.g. "BRL", "USD".
	Currency string `gorm:"column:currency;size:3;not null"`

	Amount       float64         `gorm:"column:amount;type:numeric(18,2)"`
	ExchangeRate sql.NullFloat64 `gorm:"column:exchange_rate;type:numeric(18,6)"`
	ValueDate    sql.NullTime    `gorm:"column:value_date"`

	SourceSystem string    `gorm:"column:source_system;size:40"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

// TableName returns the PRIMARY table name.
func (DeclaredValue) TableName() string { return "declared_values" }

// ImportTax is one tax/duty line for a document. Natural key:
// (process_reference, document_number, document_type, tax_kind,
// amendment_number) with NULL amendment treated as one distinct value;
// see ddl.go for the coalesce-based unique index.
type ImportTax struct {
	ID uint `gorm:"column:id;primaryKey;autoIncrement"`

	ProcessReference string `gorm:"column:process_reference;size:20;not null"`
	DocumentNumber   string `gorm:"column:document_number;size:40;not null"`
	DocumentType     string `gorm:"column:document_type;size:10;not null"`

	// TaxKind: II, IPI, PIS, COFINS, AFRMM, antidumping, usage fee...
	TaxKind string `gorm:"column:tax_kind;size:40;not null"`

	RevenueCode sql.NullString `gorm:"column:revenue_code;size:10"`

	AmountLocal   float64         `gorm:"column:amount_local_currency;type:numeric(18,2)"`
	AmountForeign sql.NullFloat64 `gorm:"column:amount_foreign_currency;type:numeric(18,2)"`

	PaymentDate sql.NullTime `gorm:"column:payment_date"`
	Paid        bool         `gorm:"column:paid"`

	// AmendmentNumber is set when a DI declaration was amended.
	AmendmentNumber sql.NullInt32 `gorm:"column:amendment_number"`

	SourceSystem string    `gorm:"column:source_system;size:40"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

// TableName returns the PRIMARY table name.
func (ImportTax) TableName() string { return "import_taxes" }

// LinkedExpense classifies part of a bank transaction against a
// process and an expense-type taxonomy entry. The sum of Amount over
// one bank transaction must not exceed the transaction's absolute
// value; enforced at write time, not by a constraint.
type LinkedExpense struct {
	ID uint `gorm:"column:id;primaryKey;autoIncrement"`

	BankTransactionID int64 `gorm:"column:bank_transaction_id;not null;index"`

	// ExpenseTypeID points into the fixed expense-type taxonomy.
	ExpenseTypeID int `gorm:"column:expense_type_id;not null"`

	ProcessReference string `gorm:"column:process_reference;size:20;not null;index"`

	Amount     float64 `gorm:"column:amount;type:numeric(18,2);not null"`
	Percentage float64 `gorm:"column:percentage_of_transaction;type:numeric(7,4)"`

	// ClassificationSource: manual, automatic or tax-import-derived.
	ClassificationSource string `gorm:"column:classification_source;size:20"`

	ConfidenceLevel float64 `gorm:"column:confidence_level;type:numeric(4,3)"`
	Validated       bool    `gorm:"column:validated"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName returns the PRIMARY table name.
func (LinkedExpense) TableName() string { return "linked_expenses" }

// ChangeEvent is one field-level change detected on a customs
// document. Append-only; the core never updates or deletes rows here.
type ChangeEvent struct {
	ID string `gorm:"column:id;primaryKey;type:uuid"`

	DocumentID string `gorm:"column:document_id;type:uuid;not null;index"`

	FieldName string `gorm:"column:field_name;size:40;not null"`
	OldValue  string `gorm:"column:old_value;size:400"`
	NewValue  string `gorm:"column:new_value;size:400"`

	// Source records which feed surfaced the change.
	Source string `gorm:"column:source;size:40"`

	DetectedAt time.Time `gorm:"column:detected_at"`
}

// TableName returns the PRIMARY table name.
func (ChangeEvent) TableName() string { return "change_events" }

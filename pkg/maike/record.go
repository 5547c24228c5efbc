// Package maike defines the core domain types and lifecycle contracts
// of the process-resolution engine. Pure package: no I/O. The internal
// io* packages implement these contracts.
package maike

import (
	"time"
)

// Source tags identify where a ProcessRecord was materialized from.
const (
	SourceCache   = "cache"
	SourcePrimary = "primary"
	SourceLegacy  = "legacy"
	SourceKanban  = "kanban"
	SourceAPI     = "declaration-api"
)

// ProcessRecord is the canonical view of one import process, merged
// from cache, SQL stores and the pipeline tool. Optional fields are
// pointers so that "absent" is distinguishable from zero values; the
// merge rules never overwrite a populated field with an absent one.
type ProcessRecord struct {
	// Reference is the normalized natural key, e.g. "DMD.0090/25".
	Reference string `json:"reference"`

	// InternalImportID is the opaque identifier from the upstream
	// system, when known.
	InternalImportID *string `json:"internal_import_id,omitempty"`

	// Linked customs documents.
	CENumber    *string `json:"ce_number,omitempty"`
	DINumber    *string `json:"di_number,omitempty"`
	DuimpNumber *string `json:"duimp_number,omitempty"`

	ShipmentDate  *time.Time `json:"shipment_date,omitempty"`
	ETA           *time.Time `json:"eta,omitempty"`
	ClearanceDate *time.Time `json:"clearance_date,omitempty"`

	// Status is the free-text operational status.
	Status string `json:"status,omitempty"`

	// Tracking fields. The pipeline tool is authoritative for these.
	Port          *string `json:"port,omitempty"`
	VesselName    *string `json:"vessel_name,omitempty"`
	CarrierStatus *string `json:"carrier_status,omitempty"`
	KanbanStage   *string `json:"kanban_stage,omitempty"`
	Modal         *string `json:"modal,omitempty"`

	// Financial summary. PRIMARY/LEGACY are authoritative for these.
	TotalFOB       *float64 `json:"total_fob,omitempty"`
	TotalFreight   *float64 `json:"total_freight,omitempty"`
	TotalInsurance *float64 `json:"total_insurance,omitempty"`
	TotalTaxes     *float64 `json:"total_taxes,omitempty"`

	// Counts of linked financial rows known at materialization time.
	ValueCount   int `json:"value_count"`
	TaxCount     int `json:"tax_count"`
	ExpenseCount int `json:"expense_count"`

	// Source records which store produced this record.
	Source string `json:"source,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// HasDocuments reports whether the record references at least one of
// CE, DI or DUIMP. A record without any document link is treated as an
// incomplete cache entry rather than a documented process state.
func (p *ProcessRecord) HasDocuments() bool {
	return strPresent(p.CENumber) ||
		strPresent(p.DINumber) ||
		strPresent(p.DuimpNumber)
}

// TrackingComplete reports whether ETA, port, vessel name and carrier
// status are all present.
func (p *ProcessRecord) TrackingComplete() bool {
	return p.ETA != nil &&
		strPresent(p.Port) &&
		strPresent(p.VesselName) &&
		strPresent(p.CarrierStatus)
}

// HasFinancials reports whether any of the three financial categories
// (declared values, taxes, freight) is present.
func (p *ProcessRecord) HasFinancials() bool {
	return p.ValueCount > 0 || p.TaxCount > 0 || p.TotalFreight != nil
}

func strPresent(s *string) bool {
	return s != nil && *s != ""
}

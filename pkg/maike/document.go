package maike

import (
	"strings"
	"time"
)

// DocumentType identifies the kind of a customs document.
type DocumentType string

const (
	DocTypeDI    DocumentType = "DI"
	DocTypeDUIMP DocumentType = "DUIMP"
	DocTypeCE    DocumentType = "CE"
)

// ParseDocumentType normalizes a raw document-type string. Returns
// false for values outside the DI/DUIMP/CE set.
func ParseDocumentType(raw string) (DocumentType, bool) {
	switch DocumentType(strings.ToUpper(strings.TrimSpace(raw))) {
	case DocTypeDI:
		return DocTypeDI, true
	case DocTypeDUIMP:
		return DocTypeDUIMP, true
	case DocTypeCE:
		return DocTypeCE, true
	}
	return "", false
}

// ValueKind is the valuation basis of a declared monetary line.
type ValueKind string

const (
	ValueFOB       ValueKind = "FOB"
	ValueCIF       ValueKind = "CIF"
	ValueVMLD      ValueKind = "VMLD"
	ValueVMLE      ValueKind = "VMLE"
	ValueFreight   ValueKind = "FREIGHT"
	ValueInsurance ValueKind = "INSURANCE"
)

// CustomsChannel values observed from the clearance feeds.
const (
	ChannelGreen = "GREEN"
	ChannelRed   = "RED"
)

// DocumentStatus is the per-document view returned by the declaration
// sources (legacy declaration tables or the live government API).
type DocumentStatus struct {
	StatusText       string
	StatusCode       string
	Channel          string
	RegistrationDate *time.Time
	StatusDate       *time.Time
	ClearanceDate    *time.Time

	// Source records provenance, e.g. "legacy" or "kanban".
	Source string
}

// DeclaredAmount is one monetary line fetched from a declaration
// source before it is persisted as a DeclaredValue row.
type DeclaredAmount struct {
	Kind         ValueKind
	Currency     string
	Amount       float64
	ExchangeRate *float64
	ValueDate    *time.Time
}

// TaxAmount is one tax line fetched from a declaration source. A
// source record may carry several candidate amount fields; the healer
// prefers collected over due over calculated.
type TaxAmount struct {
	Kind            string
	RevenueCode     string
	AmountCollected *float64
	AmountDue       *float64
	AmountCalc      *float64
	AmountForeign   *float64
	PaymentDate     *time.Time
	Paid            bool
	AmendmentNumber *int
}

// BestAmount picks the most reliable amount on the line: collected,
// then due, then calculated. Returns 0 and false when no candidate is
// present or all candidates are zero.
func (t *TaxAmount) BestAmount() (float64, bool) {
	for _, a := range []*float64{t.AmountCollected, t.AmountDue, t.AmountCalc} {
		if a != nil && *a != 0 {
			return *a, true
		}
	}
	return 0, false
}

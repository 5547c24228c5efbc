package iokanban

import (
	"time"

	"github.com/helenomaffra/maikedb/pkg/maike"
)

// cardResponse is one card as returned by the pipeline tool.
type cardResponse struct {
	OrderNumber   string `json:"order_number"`
	Stage         string `json:"stage"`
	Modal         string `json:"modal"`
	CENumber      string `json:"ce_number"`
	DINumber      string `json:"di_number"`
	DuimpNumber   string `json:"duimp_number"`
	ETA           string `json:"eta"`
	Port          string `json:"port"`
	VesselName    string `json:"vessel_name"`
	CarrierStatus string `json:"carrier_status"`
	Status        string `json:"status"`
	UpdatedAt     string `json:"updated_at"`
}

// toRecord maps a card onto the domain record. Empty strings become
// absent fields so the merge rules treat them correctly.
func (c *cardResponse) toRecord(reference string) *maike.ProcessRecord {
	rec := &maike.ProcessRecord{
		Reference:     reference,
		Status:        c.Status,
		CENumber:      optional(c.CENumber),
		DINumber:      optional(c.DINumber),
		DuimpNumber:   optional(c.DuimpNumber),
		Port:          optional(c.Port),
		VesselName:    optional(c.VesselName),
		CarrierStatus: optional(c.CarrierStatus),
		KanbanStage:   optional(c.Stage),
		Modal:         optional(c.Modal),
		Source:        maike.SourceKanban,
		UpdatedAt:     parseTime(c.UpdatedAt),
	}
	if eta, ok := parseDate(c.ETA); ok {
		rec.ETA = &eta
	}
	return rec
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseDate accepts the two formats the pipeline tool emits.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTime(s string) time.Time {
	if t, ok := parseDate(s); ok {
		return t
	}
	return time.Now().UTC()
}

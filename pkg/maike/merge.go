package maike

import (
	"time"
)

// Merge combines a cached record with a record materialized from the
// SQL stores into one result.
//
// Precedence: tracking fields (ETA, port, vessel, carrier status,
// Kanban stage, modal) win from the cached side because the pipeline
// tool reflects the most recent operational state; financial and
// document fields win from the SQL side because PRIMARY/LEGACY are the
// books of record. When one side lacks a field entirely the other
// side's value fills the slot. A populated field is never overwritten
// by the other side's absent value.
func Merge(cached, sql *ProcessRecord) *ProcessRecord {
	if cached == nil {
		return sql
	}
	if sql == nil {
		return cached
	}

	res := &ProcessRecord{
		Reference: sql.Reference,
		Source:    SourceCache + "+" + sql.Source,
		UpdatedAt: latest(cached.UpdatedAt, sql.UpdatedAt),
	}
	if res.Reference == "" {
		res.Reference = cached.Reference
	}

	// Tracking: cache wins, SQL fills gaps.
	res.ETA = pickTime(cached.ETA, sql.ETA)
	res.Port = pickStr(cached.Port, sql.Port)
	res.VesselName = pickStr(cached.VesselName, sql.VesselName)
	res.CarrierStatus = pickStr(cached.CarrierStatus, sql.CarrierStatus)
	res.KanbanStage = pickStr(cached.KanbanStage, sql.KanbanStage)
	res.Modal = pickStr(cached.Modal, sql.Modal)

	// Documents and financials: SQL wins, cache fills gaps.
	res.InternalImportID = pickStr(sql.InternalImportID, cached.InternalImportID)
	res.CENumber = pickStr(sql.CENumber, cached.CENumber)
	res.DINumber = pickStr(sql.DINumber, cached.DINumber)
	res.DuimpNumber = pickStr(sql.DuimpNumber, cached.DuimpNumber)
	res.ShipmentDate = pickTime(sql.ShipmentDate, cached.ShipmentDate)
	res.ClearanceDate = pickTime(sql.ClearanceDate, cached.ClearanceDate)
	res.TotalFOB = pickFloat(sql.TotalFOB, cached.TotalFOB)
	res.TotalFreight = pickFloat(sql.TotalFreight, cached.TotalFreight)
	res.TotalInsurance = pickFloat(sql.TotalInsurance, cached.TotalInsurance)
	res.TotalTaxes = pickFloat(sql.TotalTaxes, cached.TotalTaxes)

	res.Status = sql.Status
	if res.Status == "" {
		res.Status = cached.Status
	}

	res.ValueCount = maxInt(sql.ValueCount, cached.ValueCount)
	res.TaxCount = maxInt(sql.TaxCount, cached.TaxCount)
	res.ExpenseCount = maxInt(sql.ExpenseCount, cached.ExpenseCount)

	return res
}

// pickStr returns the preferred value unless it is absent or empty, in
// which case the fallback fills the slot.
func pickStr(preferred, fallback *string) *string {
	if strPresent(preferred) {
		return preferred
	}
	if strPresent(fallback) {
		return fallback
	}
	return nil
}

func pickTime(preferred, fallback *time.Time) *time.Time {
	if preferred != nil {
		return preferred
	}
	return fallback
}

func pickFloat(preferred, fallback *float64) *float64 {
	if preferred != nil {
		return preferred
	}
	return fallback
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

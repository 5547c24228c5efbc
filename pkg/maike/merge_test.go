package maike_test

import (
	"testing"
	"time"

	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string       { return &s }
func floatPtr(f float64) *float64   { return &f }
func timePtr(t time.Time) *time.Time { return &t }

// Tracking fields must win from the cached side, financial fields
// from the SQL side, and neither side's populated field is ever
// overwritten by the other side's absent one.
func TestMergePrecedence(t *testing.T) {
	eta := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	cached := &maike.ProcessRecord{
		Reference:     "DMD.0090/25",
		ETA:           timePtr(eta),
		VesselName:    strPtr("MSC AURORA"),
		Port:          strPtr("Santos"),
		CarrierStatus: strPtr("in transit"),
		KanbanStage:   strPtr("chegada"),
		Source:        maike.SourceCache,
	}
	sql := &maike.ProcessRecord{
		Reference:  "DMD.0090/25",
		DINumber:   strPtr("25/1234567-0"),
		TotalFOB:   floatPtr(152300.55),
		TotalTaxes: floatPtr(31200.10),
		ValueCount: 4,
		TaxCount:   5,
		Status:     "desembaraçado",
		Source:     maike.SourcePrimary,
	}

	got := maike.Merge(cached, sql)
	require.NotNil(t, got)

	// Tracking from cache.
	require.NotNil(t, got.ETA)
	assert.Equal(t, eta, *got.ETA)
	assert.Equal(t, "MSC AURORA", *got.VesselName)
	assert.Equal(t, "Santos", *got.Port)
	assert.Equal(t, "chegada", *got.KanbanStage)

	// Financials and documents from SQL.
	assert.Equal(t, "25/1234567-0", *got.DINumber)
	assert.Equal(t, 152300.55, *got.TotalFOB)
	assert.Equal(t, 31200.10, *got.TotalTaxes)
	assert.Equal(t, 4, got.ValueCount)
	assert.Equal(t, "desembaraçado", got.Status)
}

func TestMergeFillsEmptySlots(t *testing.T) {
	cached := &maike.ProcessRecord{
		Reference: "BND.0114/24",
		CENumber:  strPtr("151705123456789"), // only cache knows the CE
		Source:    maike.SourceCache,
	}
	sql := &maike.ProcessRecord{
		Reference:  "BND.0114/24",
		Modal:      strPtr("maritime"), // only SQL knows the modal
		TotalFOB:   floatPtr(88000),
		ValueCount: 1,
		Source:     maike.SourceLegacy,
	}

	got := maike.Merge(cached, sql)

	assert.Equal(t, "151705123456789", *got.CENumber)
	assert.Equal(t, "maritime", *got.Modal)
	assert.Equal(t, 88000.0, *got.TotalFOB)
}

func TestMergeNilSides(t *testing.T) {
	rec := &maike.ProcessRecord{Reference: "DMD.0090/25"}

	assert.Same(t, rec, maike.Merge(nil, rec))
	assert.Same(t, rec, maike.Merge(rec, nil))
	assert.Nil(t, maike.Merge(nil, nil))
}

func TestMergeEmptyStringTreatedAsAbsent(t *testing.T) {
	cached := &maike.ProcessRecord{
		Reference: "DMD.0090/25",
		Port:      strPtr(""), // present pointer, empty value
	}
	sql := &maike.ProcessRecord{
		Reference: "DMD.0090/25",
		Port:      strPtr("Itajaí"),
	}

	got := maike.Merge(cached, sql)
	require.NotNil(t, got.Port)
	assert.Equal(t, "Itajaí", *got.Port)
}

func TestRecordCompleteness(t *testing.T) {
	tests := []struct {
		msg      string
		rec      maike.ProcessRecord
		hasDocs  bool
		tracking bool
		fin      bool
	}{
		{
			msg: "empty record",
		},
		{
			msg:     "di only",
			rec:     maike.ProcessRecord{DINumber: strPtr("25/1234567-0")},
			hasDocs: true,
		},
		{
			msg: "tracking complete",
			rec: maike.ProcessRecord{
				ETA:           timePtr(time.Now()),
				Port:          strPtr("Santos"),
				VesselName:    strPtr("LOG-IN POLARIS"),
				CarrierStatus: strPtr("discharged"),
			},
			tracking: true,
		},
		{
			msg: "freight only counts as financials",
			rec: maike.ProcessRecord{TotalFreight: floatPtr(1200)},
			fin: true,
		},
		{
			msg: "empty-string document is not a link",
			rec: maike.ProcessRecord{CENumber: strPtr("")},
		},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			assert.Equal(t, v.hasDocs, v.rec.HasDocuments())
			assert.Equal(t, v.tracking, v.rec.TrackingComplete())
			assert.Equal(t, v.fin, v.rec.HasFinancials())
		})
	}
}

func TestTaxBestAmount(t *testing.T) {
	tests := []struct {
		msg  string
		tax  maike.TaxAmount
		want float64
		ok   bool
	}{
		{
			msg: "collected wins over due and calculated",
			tax: maike.TaxAmount{
				AmountCollected: floatPtr(100),
				AmountDue:       floatPtr(110),
				AmountCalc:      floatPtr(120),
			},
			want: 100, ok: true,
		},
		{
			msg: "due wins over calculated",
			tax: maike.TaxAmount{
				AmountDue:  floatPtr(110),
				AmountCalc: floatPtr(120),
			},
			want: 110, ok: true,
		},
		{
			msg:  "calculated as last resort",
			tax:  maike.TaxAmount{AmountCalc: floatPtr(120)},
			want: 120, ok: true,
		},
		{
			msg: "zero collected is skipped",
			tax: maike.TaxAmount{
				AmountCollected: floatPtr(0),
				AmountDue:       floatPtr(42),
			},
			want: 42, ok: true,
		},
		{
			msg: "no candidates",
			tax: maike.TaxAmount{},
		},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			got, ok := v.tax.BestAmount()
			assert.Equal(t, v.ok, ok)
			assert.Equal(t, v.want, got)
		})
	}
}

func TestCompleteness(t *testing.T) {
	t.Run("needs heal when values missing and DI linked", func(t *testing.T) {
		c := maike.Completeness{
			HasProcess: true,
			DocCounts:  map[maike.DocumentType]int{maike.DocTypeDI: 1},
			TaxCount:   3,
		}
		assert.True(t, c.NeedsValueHeal())
	})

	t.Run("no heal when both categories present", func(t *testing.T) {
		c := maike.Completeness{
			HasProcess: true,
			DocCounts:  map[maike.DocumentType]int{maike.DocTypeDUIMP: 1},
			ValueCount: 2,
			TaxCount:   4,
		}
		assert.False(t, c.NeedsValueHeal())
	})

	t.Run("CE alone never triggers value heal", func(t *testing.T) {
		c := maike.Completeness{
			HasProcess: true,
			DocCounts:  map[maike.DocumentType]int{maike.DocTypeCE: 1},
		}
		assert.False(t, c.NeedsValueHeal())
	})

	t.Run("duimp preferred as heal source", func(t *testing.T) {
		c := maike.Completeness{
			DocCounts: map[maike.DocumentType]int{
				maike.DocTypeDI:    1,
				maike.DocTypeDUIMP: 1,
			},
		}
		assert.Equal(t,
			[]maike.DocumentType{maike.DocTypeDUIMP, maike.DocTypeDI},
			c.DeclaredDocTypes(),
		)
	})
}

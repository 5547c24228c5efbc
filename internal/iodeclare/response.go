package iodeclare

import (
	"strings"
	"time"

	"github.com/helenomaffra/maikedb/pkg/maike"
)

// statusResponse is the declaration status payload as the lookup
// service returns it.
type statusResponse struct {
	Status           string `json:"status"`
	StatusCode       string `json:"status_code"`
	Channel          string `json:"channel"`
	RegistrationDate string `json:"registration_date"`
	StatusDate       string `json:"status_date"`
	ClearanceDate    string `json:"clearance_date"`
}

func (s *statusResponse) toStatus() *maike.DocumentStatus {
	return &maike.DocumentStatus{
		StatusText:       s.Status,
		StatusCode:       s.StatusCode,
		Channel:          normalizeChannel(s.Channel),
		RegistrationDate: parseDate(s.RegistrationDate),
		StatusDate:       parseDate(s.StatusDate),
		ClearanceDate:    parseDate(s.ClearanceDate),
		Source:           maike.SourceAPI,
	}
}

type valuesResponse struct {
	Values []valueLine `json:"values"`
}

type valueLine struct {
	Kind         string   `json:"kind"`
	Currency     string   `json:"currency"`
	Amount       float64  `json:"amount"`
	ExchangeRate *float64 `json:"exchange_rate"`
	ValueDate    string   `json:"value_date"`
}

func (v *valuesResponse) toAmounts() []maike.DeclaredAmount {
	res := make([]maike.DeclaredAmount, 0, len(v.Values))
	for _, l := range v.Values {
		res = append(res, maike.DeclaredAmount{
			Kind:         maike.ValueKind(strings.ToUpper(l.Kind)),
			Currency:     strings.ToUpper(l.Currency),
			Amount:       l.Amount,
			ExchangeRate: l.ExchangeRate,
			ValueDate:    parseDate(l.ValueDate),
		})
	}
	return res
}

type taxesResponse struct {
	Taxes []taxLine `json:"taxes"`
}

type taxLine struct {
	Kind            string   `json:"kind"`
	RevenueCode     string   `json:"revenue_code"`
	AmountCollected *float64 `json:"amount_collected"`
	AmountDue       *float64 `json:"amount_due"`
	AmountCalc      *float64 `json:"amount_calculated"`
	AmountForeign   *float64 `json:"amount_foreign"`
	PaymentDate     string   `json:"payment_date"`
	Paid            bool     `json:"paid"`
	AmendmentNumber *int     `json:"amendment_number"`
}

func (t *taxesResponse) toTaxes() []maike.TaxAmount {
	res := make([]maike.TaxAmount, 0, len(t.Taxes))
	for _, l := range t.Taxes {
		res = append(res, maike.TaxAmount{
			Kind:            strings.ToUpper(l.Kind),
			RevenueCode:     l.RevenueCode,
			AmountCollected: l.AmountCollected,
			AmountDue:       l.AmountDue,
			AmountCalc:      l.AmountCalc,
			AmountForeign:   l.AmountForeign,
			PaymentDate:     parseDate(l.PaymentDate),
			Paid:            l.Paid,
			AmendmentNumber: l.AmendmentNumber,
		})
	}
	return res
}

// normalizeChannel maps the feed's channel spellings onto the
// canonical values.
func normalizeChannel(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "VERDE", "GREEN":
		return maike.ChannelGreen
	case "VERMELHO", "RED":
		return maike.ChannelRed
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

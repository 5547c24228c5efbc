package iodeclare

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/declarations/duimp/25BR00001234567/status",
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
			  "status": "DESEMBARACADA", "status_code": "10",
			  "channel": "verde",
			  "registration_date": "2025-08-01",
			  "clearance_date": "2025-08-05T14:00:00Z"}`))
		})
	mux.HandleFunc("/declarations/duimp/25BR00001234567/values",
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"values": [
			  {"kind": "fob", "currency": "usd", "amount": 15000.50},
			  {"kind": "freight", "currency": "usd", "amount": 1200}]}`))
		})
	mux.HandleFunc("/declarations/duimp/25BR00001234567/taxes",
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"taxes": [
			  {"kind": "II", "revenue_code": "0086",
			   "amount_collected": 2301.11, "paid": true},
			  {"kind": "IPI", "amount_due": 512.40}]}`))
		})
	return httptest.NewServer(mux)
}

func newTestClient(url string) maike.DeclarationClient {
	return New(&config.DeclarationAPIConfig{BaseURL: url, TimeoutSec: 2})
}

func TestDocumentStatus(t *testing.T) {
	srv := declServer(t)
	defer srv.Close()
	c := newTestClient(srv.URL)

	st, err := c.DocumentStatus(
		context.Background(), "25BR00001234567", maike.DocTypeDUIMP)
	require.NoError(t, err)
	require.NotNil(t, st)

	assert.Equal(t, "DESEMBARACADA", st.StatusText)
	assert.Equal(t, maike.ChannelGreen, st.Channel,
		"channel spelling is normalized")
	require.NotNil(t, st.ClearanceDate)
	assert.Equal(t, maike.SourceAPI, st.Source)
	assert.Nil(t, st.StatusDate)
}

func TestDocumentStatusNotFound(t *testing.T) {
	srv := declServer(t)
	defer srv.Close()
	c := newTestClient(srv.URL)

	st, err := c.DocumentStatus(
		context.Background(), "99BR99999999999", maike.DocTypeDI)
	require.NoError(t, err, "a 404 is a miss, not an error")
	assert.Nil(t, st)
}

func TestDuimpValues(t *testing.T) {
	srv := declServer(t)
	defer srv.Close()
	c := newTestClient(srv.URL)

	vals, err := c.DuimpValues(context.Background(), "25BR00001234567")
	require.NoError(t, err)
	require.Len(t, vals, 2)

	assert.Equal(t, maike.ValueFOB, vals[0].Kind)
	assert.Equal(t, "USD", vals[0].Currency)
	assert.InDelta(t, 15000.50, vals[0].Amount, 0.001)
	assert.Equal(t, maike.ValueFreight, vals[1].Kind)
}

func TestDuimpTaxes(t *testing.T) {
	srv := declServer(t)
	defer srv.Close()
	c := newTestClient(srv.URL)

	taxes, err := c.DuimpTaxes(context.Background(), "25BR00001234567")
	require.NoError(t, err)
	require.Len(t, taxes, 2)

	best, ok := taxes[0].BestAmount()
	require.True(t, ok)
	assert.InDelta(t, 2301.11, best, 0.001)

	best, ok = taxes[1].BestAmount()
	require.True(t, ok)
	assert.InDelta(t, 512.40, best, 0.001, "falls back to amount due")
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	_, err := c.DocumentStatus(
		context.Background(), "25BR00001234567", maike.DocTypeDUIMP)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

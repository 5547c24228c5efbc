package iokanban

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/helenomaffra/maikedb/pkg/ref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cardsBody = `[
  {"order_number": "dmd.0090/25", "stage": "Em trânsito",
   "modal": "MARITIMO", "ce_number": "152405123456789",
   "eta": "2025-09-12", "port": "Itajaí", "vessel_name": "MSC LORETO",
   "carrier_status": "ON BOARD", "status": "active",
   "updated_at": "2025-08-20T11:30:00Z"},
  {"order_number": "IMD.0777/25", "stage": "Registro",
   "status": "active"}
]`

func cardsServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			*hits++
			if r.URL.Path != processPath {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(cardsBody))
		}))
}

func TestFindProcess(t *testing.T) {
	var hits int
	srv := cardsServer(t, &hits)
	defer srv.Close()

	c := New(&config.KanbanConfig{
		Endpoints:  []string{srv.URL},
		TimeoutSec: 2,
	})

	r, err := ref.Parse("dmd.0090/25")
	require.NoError(t, err)

	rec, err := c.FindProcess(context.Background(), r)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "DMD.0090/25", rec.Reference)
	require.NotNil(t, rec.CENumber)
	assert.Equal(t, "152405123456789", *rec.CENumber)
	require.NotNil(t, rec.KanbanStage)
	assert.Equal(t, "Em trânsito", *rec.KanbanStage)
	require.NotNil(t, rec.ETA)
	assert.Equal(t, "2025-09-12", rec.ETA.Format("2006-01-02"))
	assert.Nil(t, rec.DINumber, "empty strings become absent fields")
}

func TestFindProcessMiss(t *testing.T) {
	var hits int
	srv := cardsServer(t, &hits)
	defer srv.Close()

	c := New(&config.KanbanConfig{
		Endpoints:  []string{srv.URL},
		TimeoutSec: 2,
	})

	r, err := ref.Parse("XXX.9999/25")
	require.NoError(t, err)

	rec, err := c.FindProcess(context.Background(), r)
	require.NoError(t, err)
	assert.Nil(t, rec, "unknown reference is a miss, not an error")
}

func TestProbeAndRemember(t *testing.T) {
	var hits int
	srv := cardsServer(t, &hits)
	defer srv.Close()

	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	c := New(&config.KanbanConfig{
		Endpoints:  []string{dead.URL, srv.URL},
		TimeoutSec: 2,
	}).(*client)

	r, err := ref.Parse("DMD.0090/25")
	require.NoError(t, err)

	_, err = c.FindProcess(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, c.active, "answering endpoint is remembered")

	// the remembered endpoint is probed first on the next call
	order := c.candidateOrder()
	require.NotEmpty(t, order)
	assert.Equal(t, srv.URL, order[0])
}

func TestAllEndpointsDown(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	c := New(&config.KanbanConfig{
		Endpoints:  []string{dead.URL},
		TimeoutSec: 1,
	})

	r, err := ref.Parse("DMD.0090/25")
	require.NoError(t, err)

	rec, err := c.FindProcess(context.Background(), r)
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

package iobackfill

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/ref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	refs    []string
	listErr error
	lastCat string
	lastYr  string
}

func (f *fakeStore) FindProcess(
	_ context.Context, _ db.DatabaseID, _ ref.Ref,
) (*maike.ProcessRecord, error) {
	return nil, nil
}

func (f *fakeStore) ListReferences(
	_ context.Context, _ db.DatabaseID, category, year string,
) ([]string, error) {
	f.lastCat, f.lastYr = category, year
	return f.refs, f.listErr
}

type fakeResolver struct {
	mu       sync.Mutex
	resolved []string
	failFor  map[string]bool
	autoHeal bool
}

func (f *fakeResolver) Resolve(
	_ context.Context, rawRef string, autoHeal bool,
) (*maike.ProcessRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autoHeal = autoHeal
	if f.failFor[rawRef] {
		return nil, errors.New("boom")
	}
	f.resolved = append(f.resolved, rawRef)
	return &maike.ProcessRecord{Reference: rawRef}, nil
}

func TestBackfillResolvesAllWithHeal(t *testing.T) {
	store := &fakeStore{
		refs: []string{"DMD.0001/25", "DMD.0002/25", "IMD.0003/25"},
	}
	res := &fakeResolver{}

	stats, err := New(store, res, 2).Backfill(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Resolved)
	assert.Zero(t, stats.Failed)
	assert.True(t, res.autoHeal, "backfill always heals")
	assert.Len(t, res.resolved, 3)
}

func TestBackfillCountsFailures(t *testing.T) {
	store := &fakeStore{
		refs: []string{"DMD.0001/25", "DMD.0002/25"},
	}
	res := &fakeResolver{failFor: map[string]bool{"DMD.0002/25": true}}

	stats, err := New(store, res, 1).Backfill(context.Background(), "", "")
	require.NoError(t, err, "individual failures are not fatal")

	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 1, stats.Failed)
}

func TestBackfillAllFailed(t *testing.T) {
	store := &fakeStore{refs: []string{"DMD.0001/25"}}
	res := &fakeResolver{failFor: map[string]bool{"DMD.0001/25": true}}

	stats, err := New(store, res, 1).Backfill(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, 1, stats.Failed)
}

func TestBackfillListFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("no connection")}

	_, err := New(store, &fakeResolver{}, 1).
		Backfill(context.Background(), "", "")
	require.Error(t, err)
}

func TestBackfillPassesFilters(t *testing.T) {
	store := &fakeStore{}

	_, err := New(store, &fakeResolver{}, 1).
		Backfill(context.Background(), "DMD", "25")
	require.NoError(t, err)
	assert.Equal(t, "DMD", store.lastCat)
	assert.Equal(t, "25", store.lastYr)
}

func TestBackfillEmptyList(t *testing.T) {
	stats, err := New(&fakeStore{}, &fakeResolver{}, 4).
		Backfill(context.Background(), "", "")
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
}

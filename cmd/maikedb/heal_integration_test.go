package main

import (
	"context"
	"testing"

	"github.com/helenomaffra/maikedb/internal/iodb"
	"github.com/helenomaffra/maikedb/internal/ioheal"
	"github.com/helenomaffra/maikedb/internal/ioschema"
	"github.com/helenomaffra/maikedb/internal/iosnapshot"
	"github.com/helenomaffra/maikedb/internal/iotesting"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Note: This is an integration test that requires PostgreSQL with a
// maikedb_test database. Skip with: go test -short

// stubDeclClient serves one fixed document status.
type stubDeclClient struct {
	st *maike.DocumentStatus
}

func (s *stubDeclClient) DocumentStatus(
	_ context.Context, _ string, _ maike.DocumentType,
) (*maike.DocumentStatus, error) {
	return s.st, nil
}

func (s *stubDeclClient) DuimpValues(
	_ context.Context, _ string,
) ([]maike.DeclaredAmount, error) {
	return nil, nil
}

func (s *stubDeclClient) DuimpTaxes(
	_ context.Context, _ string,
) ([]maike.TaxAmount, error) {
	return nil, nil
}

// TestHealDocument_Integration_ConcurrentFirstInsert verifies that
// several first-time heals of the same document converge on one row
// instead of failing on the duplicate deterministic id, and that the
// identical writes leave no change events behind.
func TestHealDocument_Integration_ConcurrentFirstInsert(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()

	op := iodb.NewPgxOperator()
	err := op.Connect(ctx, cfg)
	require.NoError(t, err, "Should connect to database")
	defer op.Close()

	_ = dropAllTables(ctx, op)
	require.NoError(t, ioschema.NewManager(op).Create(ctx))

	decl := &stubDeclClient{st: &maike.DocumentStatus{
		StatusText: "DESEMBARACADA",
		Channel:    maike.ChannelGreen,
		Source:     maike.SourceAPI,
	}}
	h := ioheal.New(op, decl, iosnapshot.New(op))

	const number = "25BR00009876543"
	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			return h.HealFromAPI(ctx, number, maike.DocTypeDUIMP)
		})
	}
	require.NoError(t, g.Wait(),
		"concurrent first-time heals should all converge")

	pool := op.Pool(db.Primary)

	var docs int
	err = pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM customs_documents WHERE document_number = $1`,
		number).Scan(&docs)
	require.NoError(t, err)
	assert.Equal(t, 1, docs, "one natural key means one row")

	var events int
	err = pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM change_events`).Scan(&events)
	require.NoError(t, err)
	assert.Zero(t, events, "identical writes record no changes")

	_ = dropAllTables(ctx, op)
}

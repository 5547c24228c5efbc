package iodb_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/helenomaffra/maikedb/internal/iodb"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := iodb.ConnectionError(db.Primary, "db.office.lan", 5432,
		"maike_assistente", cause)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "primary")
	assert.Contains(t, err.Error(), "db.office.lan:5432/maike_assistente")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNotConnectedError(t *testing.T) {
	err := iodb.NotConnectedError(db.Legacy)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "legacy")
}

func TestTableCheckError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := iodb.TableCheckError(db.Primary, "import_processes", cause)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import_processes")
	assert.Contains(t, err.Error(), "permission denied")
}

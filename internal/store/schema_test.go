package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestInitAppliesSchema(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS occupations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.Init(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

package lock

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stateCols = []string{"id", "owner_id", "seller_id", "is_locked", "message", "locked_at", "unlocked_at", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRepository(db), mock, db
}

func TestRepository_Lock_Upserts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)INSERT INTO lock_states .*ON CONFLICT \(owner_id, seller_id\) DO UPDATE.*unlocked_at = NULL`).
		WithArgs(int64(1), int64(2), "pay", at).
		WillReturnRows(sqlmock.NewRows(stateCols).AddRow(int64(3), int64(1), int64(2), true, "pay", at, nil, at, at))

	st, err := repo.Lock(context.Background(), 1, 2, "pay", at)
	require.NoError(t, err)
	assert.True(t, st.IsLocked)
	assert.Equal(t, at, *st.LockedAt)
	assert.Nil(t, st.UnlockedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Unlock_MissingRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	at := time.Now()

	mock.ExpectQuery(`(?s)UPDATE lock_states.*WHERE owner_id = \$1 AND seller_id = \$2`).
		WithArgs(int64(1), int64(2), at).
		WillReturnError(sql.ErrNoRows)

	st, err := repo.Unlock(context.Background(), 1, 2, at)
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestRepository_ListLockedForSeller(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	at := time.Now()

	mock.ExpectQuery(`(?s)FROM lock_states\s+WHERE seller_id = \$1 AND is_locked\s+ORDER BY locked_at DESC`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(stateCols).
			AddRow(int64(4), int64(9), int64(2), true, "b", at, nil, at, at).
			AddRow(int64(3), int64(1), int64(2), true, "a", at.Add(-time.Hour), nil, at, at))

	states, err := repo.ListLockedForSeller(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, int64(9), states[0].OwnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

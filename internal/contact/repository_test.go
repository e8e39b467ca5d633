package contact

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactCols = []string{"id", "account_id", "name", "phone_number", "is_emergency", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRepository(db), mock, db
}

func TestRepository_Upsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	now := time.Now()

	mock.ExpectQuery(`(?s)INSERT INTO emergency_contacts .*ON CONFLICT \(account_id, phone_number\) DO UPDATE`).
		WithArgs(int64(4), "Mom", "5551234").
		WillReturnRows(sqlmock.NewRows(contactCols).AddRow(int64(9), int64(4), "Mom", "5551234", true, now, now))

	c, err := repo.Upsert(context.Background(), 4, "Mom", "5551234")
	require.NoError(t, err)
	assert.Equal(t, int64(9), c.ID)
	assert.True(t, c.IsEmergency)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM emergency_contacts WHERE id = \$1 AND account_id = \$2`).
		WithArgs(int64(9), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM emergency_contacts WHERE id = \$1 AND account_id = \$2`).
		WithArgs(int64(9), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Delete(context.Background(), 4, 9)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(context.Background(), 5, 9)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM emergency_contacts.*ORDER BY created_at DESC`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow(int64(2), int64(4), "B", "2", true, now, now).
			AddRow(int64(1), int64(4), "A", "1", true, now.Add(-time.Hour), now))

	list, err := repo.List(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByPhone_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM emergency_contacts`).
		WithArgs(int64(4), "999").
		WillReturnError(sql.ErrNoRows)

	c, err := repo.GetByPhone(context.Background(), 4, "999")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestRepository_Count_Error(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM emergency_contacts`).
		WithArgs(int64(4)).
		WillReturnError(errors.New("boom"))

	_, err := repo.Count(context.Background(), 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count contacts")
}

package notification

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notificationCols = []string{"id", "recipient_id", "message", "is_read", "related_entity_type", "related_entity_id", "created_at"}

func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRepository(db), mock, db
}

func TestRepository_Create(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	now := time.Now()
	typ := string(EntityPaymentReminder)
	id := int64(3)

	mock.ExpectQuery(`(?s)INSERT INTO notifications .*RETURNING`).
		WithArgs(int64(3), "due", "PAYMENT_REMINDER", int64(3)).
		WillReturnRows(sqlmock.NewRows(notificationCols).AddRow(int64(1), int64(3), "due", false, typ, int64(3), now))

	n, err := repo.Create(context.Background(), 3, "due", &typ, &id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.ID)
	require.NotNil(t, n.RelatedEntityType)
	assert.Equal(t, typ, *n.RelatedEntityType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByRecipientID_UnreadOnly(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE recipient_id = \$1 AND is_read = false`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`(?s)FROM notifications WHERE recipient_id = \$1 AND is_read = false ORDER BY created_at DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(3), 20, 0).
		WillReturnRows(sqlmock.NewRows(notificationCols).AddRow(int64(1), int64(3), "due", false, nil, nil, now))

	list, total, err := repo.ListByRecipientID(context.Background(), 3, 20, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].RelatedEntityType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM notifications WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	n, err := repo.GetByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestRepository_ExistsSince(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT EXISTS .*related_entity_type = \$2 AND created_at >= \$3`).
		WithArgs(int64(3), "PAYMENT_REMINDER", since).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsSince(context.Background(), 3, "PAYMENT_REMINDER", since)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

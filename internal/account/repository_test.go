package account

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountCols = []string{
	"id", "name", "phone", "username", "password_hash", "pairing_code", "role",
	"device_id", "device_info", "device_registered_at",
	"debt_total", "debt_remaining", "installment_amount", "installments_paid", "installments_pending",
	"next_payment_at", "last_payment_at", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRepository(db), mock, db
}

func sellerRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(accountCols).AddRow(
		int64(2), "Sam", "555", "sam", "hash", "JCABCDEF01", "seller",
		"dev-1", []byte(`{"model":"x"}`), now,
		"300.00", "200.00", "100.00", 1, 2,
		now, nil, now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	now := time.Now()

	mock.ExpectQuery(`(?s)^\s*INSERT INTO accounts .*RETURNING`).
		WithArgs("Sam", "555", "sam", "hash", "JCABCDEF01", "seller").
		WillReturnRows(sellerRow(now))

	a, err := repo.Create(context.Background(), &Account{
		Name: "Sam", Phone: "555", Username: "sam", PasswordHash: "hash",
		PairingCode: "JCABCDEF01", Role: RoleSeller,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), a.ID)
	assert.Equal(t, RoleSeller, a.Role)
	assert.Equal(t, "dev-1", *a.DeviceID)
	assert.Equal(t, "x", a.DeviceInfo["model"])
	assert.True(t, a.Debt.Remaining.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 2, a.Debt.Pending)
	assert.Nil(t, a.Debt.LastPaymentAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_MapsUniqueViolations(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"accounts_username_key", ErrUsernameTaken},
		{"accounts_phone_key", ErrPhoneTaken},
		{"accounts_pairing_code_key", errPairingCodeTaken},
	}

	for _, tc := range tests {
		t.Run(tc.constraint, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(`INSERT INTO accounts`).
				WillReturnError(&pq.Error{Code: "23505", Constraint: tc.constraint})

			_, err := repo.Create(context.Background(), &Account{Role: RoleOwner})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRepository_GetByPairingCode_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM accounts WHERE pairing_code = \$1`).
		WithArgs("JCNOPE0000").
		WillReturnError(sql.ErrNoRows)

	a, err := repo.GetByPairingCode(context.Background(), "JCNOPE0000")
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestRepository_GetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM accounts WHERE id = \$1`).WillReturnError(errors.New("boom"))

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorContains(t, err, "failed to get account by id")
}

func TestRepository_Exists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRepository_UpdateDebt(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE accounts\s+SET debt_total`).
		WithArgs(int64(2), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1), int64(2), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)UPDATE accounts\s+SET debt_total`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	d := DebtSnapshot{Total: decimal.NewFromInt(300), Remaining: decimal.NewFromInt(200), InstallmentAmount: decimal.NewFromInt(100), Paid: 1, Pending: 2}
	require.NoError(t, repo.UpdateDebt(context.Background(), 2, d))
	assert.ErrorIs(t, repo.UpdateDebt(context.Background(), 2, d), ErrAccountNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RegisterDevice(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	at := time.Now()

	mock.ExpectExec(`(?s)UPDATE accounts\s+SET device_id`).
		WithArgs(int64(2), "dev-9", []byte(`{"os":"android"}`), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RegisterDevice(context.Background(), 2, "dev-9", map[string]interface{}{"os": "android"}, at)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListSellersWithDebt(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM accounts\s+WHERE role = 'seller' AND debt_remaining > 0`).
		WillReturnRows(sellerRow(time.Now()))

	accounts, err := repo.ListSellersWithDebt(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "sam", accounts[0].Username)
}

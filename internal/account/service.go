package account

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/paylock/internal/auth"
	"github.com/fkhayef/paylock/internal/debt/schedule"
)

// Common errors
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrUsernameTaken        = errors.New("username already in use")
	ErrPhoneTaken           = errors.New("phone already in use")
	ErrInvalidUsername      = errors.New("username must not contain '@'")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPairingCodeExhausted = errors.New("could not allocate a unique pairing code")
)

const pairingCodeAttempts = 5

// Store is the persistence the account service needs
type Store interface {
	Create(ctx context.Context, a *Account) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByPhone(ctx context.Context, phone string) (*Account, error)
	GetByPairingCode(ctx context.Context, code string) (*Account, error)
	Exists(ctx context.Context, id int64) (bool, error)
	UpdateDebt(ctx context.Context, id int64, d DebtSnapshot) error
	RegisterDevice(ctx context.Context, id int64, deviceID string, info map[string]interface{}, at time.Time) error
	ListSellersWithDebt(ctx context.Context) ([]*Account, error)
}

// TokenIssuer signs session tokens for accounts
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// Service handles account business logic
type Service struct {
	store   Store
	tokens  TokenIssuer
	now     func() time.Time
	newCode func() string
}

// NewService creates a new account service
func NewService(store Store, tokens TokenIssuer) *Service {
	return &Service{
		store:   store,
		tokens:  tokens,
		now:     time.Now,
		newCode: newPairingCode,
	}
}

// newPairingCode returns "JC" followed by eight upper-case hex characters
func newPairingCode() string {
	id := uuid.New()
	return "JC" + strings.ToUpper(hex.EncodeToString(id[:4]))
}

// Register creates an account and issues its first token
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Account, string, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if strings.Contains(username, "@") {
		return nil, "", ErrInvalidUsername
	}
	phone := strings.TrimSpace(req.Phone)

	existing, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUsernameTaken
	}

	existing, err = s.store.GetByPhone(ctx, phone)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrPhoneTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	role := req.Role
	if role == "" {
		role = RoleOwner
	}

	candidate := &Account{
		Name:         strings.TrimSpace(req.Name),
		Phone:        phone,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}

	var created *Account
	for attempt := 0; attempt < pairingCodeAttempts && created == nil; attempt++ {
		candidate.PairingCode = s.newCode()

		taken, err := s.store.GetByPairingCode(ctx, candidate.PairingCode)
		if err != nil {
			return nil, "", err
		}
		if taken != nil {
			continue
		}

		created, err = s.store.Create(ctx, candidate)
		if errors.Is(err, errPairingCodeTaken) {
			created = nil
			continue
		}
		if err != nil {
			return nil, "", err
		}
	}
	if created == nil {
		return nil, "", ErrPairingCodeExhausted
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login verifies credentials and issues a token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Account, string, error) {
	a, err := s.store.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		return nil, "", err
	}
	if a == nil || !auth.CheckPassword(a.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(a.ID)
	if err != nil {
		return nil, "", err
	}
	return a, token, nil
}

// GetByID retrieves an account by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Account, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

// GetByPairingCode retrieves an account by its public pairing code
func (s *Service) GetByPairingCode(ctx context.Context, code string) (*Account, error) {
	a, err := s.store.GetByPairingCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

// Exists reports whether the account still exists
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.store.Exists(ctx, id)
}

// UpdateDebt overwrites an account's debt snapshot
func (s *Service) UpdateDebt(ctx context.Context, id int64, d DebtSnapshot) error {
	return s.store.UpdateDebt(ctx, id, d)
}

// ListSellersWithDebt returns sellers owing money with a scheduled due date
func (s *Service) ListSellersWithDebt(ctx context.Context) ([]*Account, error) {
	return s.store.ListSellersWithDebt(ctx)
}

// RegisterDevice binds a device identifier to the account
func (s *Service) RegisterDevice(ctx context.Context, id int64, req *RegisterDeviceRequest) (*Account, error) {
	if err := s.store.RegisterDevice(ctx, id, strings.TrimSpace(req.DeviceID), req.DeviceInfo, s.now()); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// PaymentStatus reports how many days remain until the caller's next
// installment and which reminder, if any, applies today.
func (s *Service) PaymentStatus(ctx context.Context, id int64) (*PaymentStatus, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.IsSeller() || !a.Debt.HasDebt() || a.Debt.NextPaymentAt == nil {
		return &PaymentStatus{HasDebt: false}, nil
	}

	days := schedule.DaysUntil(s.now(), *a.Debt.NextPaymentAt)
	return &PaymentStatus{
		HasDebt:          true,
		DaysUntilPayment: days,
		NotificationType: schedule.ReminderKind(days),
		Debt:             a.Debt,
	}, nil
}

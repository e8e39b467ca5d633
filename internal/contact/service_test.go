package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/paylock/pkg/middleware"
)

type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	contacts map[int64]*Contact
	now      time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{contacts: map[int64]*Contact{}, now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeStore) find(accountID int64, phone string) *Contact {
	for _, c := range f.contacts {
		if c.AccountID == accountID && c.PhoneNumber == phone {
			return c
		}
	}
	return nil
}

func (f *fakeStore) Upsert(_ context.Context, accountID int64, name, phone string) (*Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(time.Minute)
	if c := f.find(accountID, phone); c != nil {
		c.Name, c.IsEmergency, c.UpdatedAt = name, true, f.now
		cp := *c
		return &cp, nil
	}
	f.nextID++
	c := &Contact{ID: f.nextID, AccountID: accountID, Name: name, PhoneNumber: phone, IsEmergency: true, CreatedAt: f.now, UpdatedAt: f.now}
	f.contacts[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeStore) DeleteByPhone(_ context.Context, accountID int64, phone string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c := f.find(accountID, phone); c != nil {
		delete(f.contacts, c.ID)
		return true, nil
	}
	return false, nil
}

func (f *fakeStore) Delete(_ context.Context, accountID, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contacts[id]; ok && c.AccountID == accountID {
		delete(f.contacts, id)
		return true, nil
	}
	return false, nil
}

func (f *fakeStore) List(_ context.Context, accountID int64) ([]*Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*Contact{}
	for _, c := range f.contacts {
		if c.AccountID == accountID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) Count(ctx context.Context, accountID int64) (int, error) {
	list, err := f.List(ctx, accountID)
	return len(list), err
}

func (f *fakeStore) GetByPhone(_ context.Context, accountID int64, phone string) (*Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c := f.find(accountID, phone); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "573001234567", NormalizePhone("+57 (300) 123-4567"))
	assert.Equal(t, "", NormalizePhone("call me"))
}

func TestService_ToggleLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore())

	c, err := svc.Toggle(ctx, 1, &ToggleRequest{Name: "Mom", PhoneNumber: "300-111", IsEmergency: true})
	require.NoError(t, err)
	assert.Equal(t, "300111", c.PhoneNumber)

	again, err := svc.Toggle(ctx, 1, &ToggleRequest{Name: "Mother", PhoneNumber: "300 111", IsEmergency: true})
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
	assert.Equal(t, "Mother", again.Name)

	_, err = svc.Toggle(ctx, 1, &ToggleRequest{Name: "Dad", PhoneNumber: "300222", IsEmergency: true})
	require.NoError(t, err)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Dad", list[0].Name)

	count, err := svc.Count(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, count)

	removed, err := svc.Toggle(ctx, 1, &ToggleRequest{Name: "Mother", PhoneNumber: "(300) 111", IsEmergency: false})
	require.NoError(t, err)
	assert.Nil(t, removed)

	count, err = svc.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_ToggleRejectsPhoneWithoutDigits(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Toggle(context.Background(), 1, &ToggleRequest{Name: "x", PhoneNumber: "abc", IsEmergency: true})
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestService_FindAndRemove(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore())

	c, err := svc.Toggle(ctx, 1, &ToggleRequest{Name: "Mom", PhoneNumber: "555", IsEmergency: true})
	require.NoError(t, err)

	found, err := svc.FindByPhone(ctx, 1, "+5-5-5")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	_, err = svc.FindByPhone(ctx, 2, "555")
	assert.ErrorIs(t, err, ErrContactNotFound)

	assert.ErrorIs(t, svc.Remove(ctx, 2, c.ID), ErrContactNotFound)
	require.NoError(t, svc.Remove(ctx, 1, c.ID))
	assert.ErrorIs(t, svc.Remove(ctx, 1, c.ID), ErrContactNotFound)
}

func TestHandler_Routes(t *testing.T) {
	h := NewHandler(NewService(newFakeStore()))
	router := middlewareAs(7, h.Routes())

	call := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	rec := call(http.MethodPost, "/emergency", `{"name":"Mom","phoneNumber":"+1 555","isEmergency":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"phoneNumber":"1555"`)

	rec = call(http.MethodPost, "/emergency", `{"phoneNumber":"1555","isEmergency":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(http.MethodGet, "/emergency/count", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = call(http.MethodGet, "/emergency/phone/1555", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(http.MethodGet, "/emergency/phone/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(http.MethodDelete, "/emergency/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(http.MethodDelete, "/emergency/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(http.MethodDelete, "/emergency/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(http.MethodPost, "/emergency", `{"name":"Mom","phoneNumber":"1555","isEmergency":false}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func middlewareAs(id int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), id)))
	})
}

package request

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Username string `json:"username" validate:"required,excludes=@"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=owner seller"`
}

func TestBind(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"username":"ana","password":"secret1"}`, ""},
		{"malformed json", `{"username":`, ErrInvalidBody.Error()},
		{"missing field", `{"password":"secret1"}`, "username: is required"},
		{"short password", `{"username":"ana","password":"123"}`, "password: must be at least 6"},
		{"at sign", `{"username":"a@b","password":"secret1"}`, "username: must not contain @"},
		{"bad role", `{"username":"ana","password":"secret1","role":"admin"}`, "role: must be one of owner seller"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			var dst sample
			err := Bind(req, &dst)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "ana", dst.Username)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantErr, err.Error())
		})
	}
}

func TestBind_MalformedIsSentinel(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader("nope"))
	var dst sample
	assert.True(t, errors.Is(Bind(req, &dst), ErrInvalidBody))
}

package session

import (
	"testing"
	"time"

	"github.com/lumiloops/portal-api/internal/model"
	xhttp "github.com/lumiloops/portal-api/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func newTestManager() *Manager {
	return NewManager("test-secret", "lumiloops", time.Hour)
}

func adminProfile() *model.Profile {
	return &model.Profile{
		ID:       "6a6b1f3a-9c3a-4e9e-8c8a-999999999999",
		Email:    "admin@lumiloops.com",
		FullName: "Studio Admin",
		Role:     model.RoleAdmin,
	}
}

func TestManager_SignAndVerify(t *testing.T) {
	m := newTestManager()

	token, err := m.Sign(adminProfile())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	s, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "6a6b1f3a-9c3a-4e9e-8c8a-999999999999", s.UserID)
	assert.Equal(t, "admin@lumiloops.com", s.Email)
	assert.Equal(t, "Studio Admin", s.Name)
	assert.True(t, s.IsAdmin())
}

func TestManager_Verify_Invalid(t *testing.T) {
	m := newTestManager()

	t.Run("garbage token", func(t *testing.T) {
		_, err := m.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("other-secret", "lumiloops", time.Hour)
		token, err := other.Sign(adminProfile())
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewManager("test-secret", "lumiloops", -time.Minute)
		token, err := expired.Sign(adminProfile())
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestAuthenticate(t *testing.T) {
	m := newTestManager()

	var captured *Session
	handler := m.Authenticate(func(ctx *fasthttp.RequestCtx) {
		captured = FromCtx(ctx)
		ctx.SetStatusCode(xhttp.StatusOK)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		token, err := m.Sign(adminProfile())
		require.NoError(t, err)

		ctx := &fasthttp.RequestCtx{}
		ctx.Request.Header.Set("Authorization", "Bearer "+token)
		handler(ctx)

		assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
		require.NotNil(t, captured)
		assert.Equal(t, "admin@lumiloops.com", captured.Email)
	})

	t.Run("missing header", func(t *testing.T) {
		ctx := &fasthttp.RequestCtx{}
		handler(ctx)
		assert.Equal(t, xhttp.StatusUnauthorized, ctx.Response.StatusCode())
	})

	t.Run("malformed header", func(t *testing.T) {
		ctx := &fasthttp.RequestCtx{}
		ctx.Request.Header.Set("Authorization", "Basic abc")
		handler(ctx)
		assert.Equal(t, xhttp.StatusUnauthorized, ctx.Response.StatusCode())
	})
}

func TestRequireAdmin(t *testing.T) {
	var called bool
	handler := RequireAdmin(func(ctx *fasthttp.RequestCtx) {
		called = true
		ctx.SetStatusCode(xhttp.StatusOK)
	})

	t.Run("admin passes", func(t *testing.T) {
		called = false
		ctx := &fasthttp.RequestCtx{}
		Store(ctx, &Session{UserID: "u1", Role: model.RoleAdmin})
		handler(ctx)
		assert.True(t, called)
	})

	t.Run("client is rejected", func(t *testing.T) {
		called = false
		ctx := &fasthttp.RequestCtx{}
		Store(ctx, &Session{UserID: "u2", Role: model.RoleClient})
		handler(ctx)
		assert.False(t, called)
		assert.Equal(t, xhttp.StatusForbidden, ctx.Response.StatusCode())
	})

	t.Run("anonymous is rejected", func(t *testing.T) {
		called = false
		ctx := &fasthttp.RequestCtx{}
		handler(ctx)
		assert.False(t, called)
		assert.Equal(t, xhttp.StatusUnauthorized, ctx.Response.StatusCode())
	})
}

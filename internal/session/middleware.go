package session

import (
	"strings"

	xhttp "github.com/lumiloops/portal-api/pkg/http"
	"github.com/valyala/fasthttp"
)

const ctxKey = "session"

// FromCtx returns the session stored by Authenticate, or nil on an
// unauthenticated request.
func FromCtx(ctx *xhttp.RequestCtx) *Session {
	s, _ := ctx.UserValue(ctxKey).(*Session)
	return s
}

// Store puts a session on the request context. Exposed for handler tests.
func Store(ctx *xhttp.RequestCtx, s *Session) {
	ctx.SetUserValue(ctxKey, s)
}

// Authenticate verifies the bearer token and rejects the request with 401
// when it is missing or bad.
func (m *Manager) Authenticate(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		token := bearerToken(ctx)
		if token == "" {
			unauthorized(ctx, "missing bearer token")
			return
		}

		s, err := m.Verify(token)
		if err != nil {
			unauthorized(ctx, err.Error())
			return
		}

		Store(ctx, s)
		next(ctx)
	}
}

// RequireAdmin rejects authenticated non-admin callers with 403. It must run
// after Authenticate.
func RequireAdmin(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		s := FromCtx(ctx)
		if s == nil {
			unauthorized(ctx, "missing bearer token")
			return
		}
		if !s.IsAdmin() {
			ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
			ctx.Response.SetStatusCode(xhttp.StatusForbidden)
			ctx.Response.SetBodyString(`{"error":"admin access required"}`)
			return
		}
		next(ctx)
	}
}

func bearerToken(ctx *fasthttp.RequestCtx) string {
	auth := string(ctx.Request.Header.Peek("Authorization"))
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(ctx *fasthttp.RequestCtx, msg string) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(xhttp.StatusUnauthorized)
	ctx.Response.SetBodyString(`{"error":"` + msg + `"}`)
}

package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/services"
	"github.com/lumiloops/portal-api/internal/session"
	xhttp "github.com/lumiloops/portal-api/pkg/http"
)

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// isValidation reports whether err came from a payload Validate call, as
// opposed to a downstream failure that must not leak to the client.
func isValidation(err error) bool {
	var ve model.ValidationError
	return errors.As(err, &ve)
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func param(ctx *xhttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return v
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// actorFrom captures the acting admin for the audit trail. Proxy-forwarded
// addresses win over the socket peer.
func actorFrom(ctx *xhttp.RequestCtx) services.Actor {
	ip := string(ctx.Request.Header.Peek("X-Forwarded-For"))
	if ip == "" {
		ip = ctx.RemoteIP().String()
	}

	actor := services.Actor{
		IPAddress: ip,
		UserAgent: string(ctx.Request.Header.UserAgent()),
	}
	if s := session.FromCtx(ctx); s != nil {
		actor.AdminID = s.UserID
	}
	return actor
}

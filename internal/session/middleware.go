package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName is the session cookie. Its value is an opaque token from
	// Codec.Encode.
	CookieName = "user_session"

	// cookie lifetime in seconds (30 days)
	cookieMaxAge = 30 * 24 * 60 * 60

	principalKey = "session_user_id"
)

// Manager issues, clears and validates the session cookie.
type Manager struct {
	codec    *Codec
	secure   bool
	loginURL string
}

func NewManager(codec *Codec, secure bool) *Manager {
	return &Manager{
		codec:    codec,
		secure:   secure,
		loginURL: "/login",
	}
}

// Issue sets the session cookie for the given user: HttpOnly, Path=/,
// SameSite=Lax, Secure per configuration.
func (m *Manager) Issue(ctx *gin.Context, userID int64) error {
	token, err := m.codec.Encode(Session{UserID: userID})

	if err != nil {
		return err
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(CookieName, token, cookieMaxAge, "/", "", m.secure, true)

	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}

// Require guards a route group. A missing, tampered or undecryptable cookie
// is treated identically: redirect to the login form, never an error page.
// On success the decoded user id becomes the request principal.
func (m *Manager) Require() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, err := ctx.Cookie(CookieName)

		if err != nil || raw == "" {
			m.challenge(ctx)
			return
		}

		s, err := m.codec.Decode(raw)

		if err != nil {
			m.challenge(ctx)
			return
		}

		ctx.Set(principalKey, s.UserID)
		ctx.Next()
	}
}

func (m *Manager) challenge(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, m.loginURL)
	ctx.Abort()
}

// UserID returns the authenticated principal set by Require.
func UserID(ctx *gin.Context) (int64, bool) {
	v, ok := ctx.Get(principalKey)

	if !ok {
		return 0, false
	}

	id, ok := v.(int64)

	return id, ok
}

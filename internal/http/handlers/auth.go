package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/accounthub/internal/auth"
	"github.com/geocoder89/accounthub/internal/dbx"
	"github.com/geocoder89/accounthub/internal/session"
	"github.com/geocoder89/accounthub/internal/web"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	db       *sql.DB
	svc      *auth.Service
	sessions *session.Manager
	log      *slog.Logger
}

func NewAuthHandler(db *sql.DB, svc *auth.Service, sessions *session.Manager, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		db:       db,
		svc:      svc,
		sessions: sessions,
		log:      log,
	}
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type SignupForm struct {
	Email       string `form:"email" binding:"required,email"`
	Name        string `form:"name"`
	Password    string `form:"password" binding:"required,min=8"`
	TosAccepted bool   `form:"tosAccepted"`
}

func (h *AuthHandler) LoginPage(ctx *gin.Context) (web.Response, error) {
	return web.Template("login.html", map[string]any{"Title": "Log in"}), nil
}

// Login verifies the submitted credentials and starts a session. Every
// failure path looks the same from the browser: back to the form.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var form LoginForm

	if !BindForm(ctx, h.log, &form) {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	var userID int64

	err := dbx.WithSession(ctx.Request.Context(), h.db, func(c context.Context, q dbx.DBTX) error {
		var err error
		userID, err = h.svc.AuthenticateUser(c, q, form.Username, form.Password)
		return err
	})

	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.log.Error("login failed", "err", err)
		}

		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	if err := h.sessions.Issue(ctx, userID); err != nil {
		h.log.Error("issue session cookie", "err", err)
		ctx.String(http.StatusInternalServerError, "internal server error")
		return
	}

	ctx.Redirect(http.StatusFound, "/secret")
}

func (h *AuthHandler) SignupPage(ctx *gin.Context) (web.Response, error) {
	return web.Template("signup.html", map[string]any{"Title": "Sign up"}), nil
}

func (h *AuthHandler) Signup(ctx *gin.Context) {
	var form SignupForm

	if !BindForm(ctx, h.log, &form) {
		ctx.Redirect(http.StatusFound, "/signup")
		return
	}

	var userID int64

	err := dbx.WithTx(ctx.Request.Context(), h.db, func(c context.Context, tx dbx.DBTX) error {
		var err error
		userID, err = h.svc.CreateUser(c, tx, auth.CreateUserParams{
			Email:       form.Email,
			Name:        form.Name,
			Password:    form.Password,
			TosAccepted: form.TosAccepted,
		})
		return err
	})

	if err != nil {
		if !errors.Is(err, auth.ErrEmailTaken) {
			h.log.Error("signup failed", "err", err)
		}

		ctx.Redirect(http.StatusFound, "/signup")
		return
	}

	if err := h.sessions.Issue(ctx, userID); err != nil {
		h.log.Error("issue session cookie", "err", err)
		ctx.String(http.StatusInternalServerError, "internal server error")
		return
	}

	ctx.Redirect(http.StatusFound, "/secret")
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.sessions.Clear(ctx)
	ctx.Redirect(http.StatusFound, "/login")
}

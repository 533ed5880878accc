package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/savoro/catering-auth/internal/infra/config"
	"github.com/savoro/catering-auth/internal/usecase"
)

const (
	msgInvalidAction    = "Invalid action specified"
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidJSON      = "Invalid JSON format"
	msgLoggedOut        = "You have been successfully logged out"
)

// AuthHandler serves the /api/auth endpoint. The concrete operation is
// selected by the action parameter, login being the default.
type AuthHandler struct {
	auth    *usecase.AuthService
	session config.SessionSettings
	logger  *zap.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, session config.SessionSettings, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{auth: auth, session: session, logger: log}
}

// Handle dispatches login, logout and check_auth based on the action
// parameter. Mutating actions require POST.
func (h *AuthHandler) Handle(c *gin.Context) {
	switch action(c, "login") {
	case "login":
		if !requirePost(c) {
			return
		}
		h.login(c)
	case "logout":
		if !requirePost(c) {
			return
		}
		h.logout(c)
	case "check_auth":
		h.checkAuth(c)
	default:
		respond(c, http.StatusBadRequest, false, msgInvalidAction, nil)
	}
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if !bindRequest(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
		IPAddress:  c.ClientIP(),
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}

	h.setSessionCookie(c, result.Session.ID)
	if result.RememberToken != "" {
		h.setRememberCookie(c, result.RememberToken)
	}

	message := fmt.Sprintf("Welcome back, %s!", result.Account.FirstName)
	respond(c, http.StatusOK, true, message, gin.H{
		"user":     userPayloadWithVerification(&result.Account),
		"redirect": "/dashboard",
		"session": gin.H{
			"started":     true,
			"remember_me": req.RememberMe,
		},
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	sessionID, _ := c.Cookie(h.session.CookieName)
	rememberToken, _ := c.Cookie(h.session.RememberCookieName)

	if err := h.auth.Logout(c.Request.Context(), sessionID, rememberToken); err != nil {
		h.logger.Warn("logout cleanup failed", zap.Error(err))
	}

	h.clearCookie(c, h.session.CookieName)
	h.clearCookie(c, h.session.RememberCookieName)

	respond(c, http.StatusOK, true, msgLoggedOut, gin.H{"redirect": "/"})
}

func (h *AuthHandler) checkAuth(c *gin.Context) {
	ctx := c.Request.Context()

	if sessionID, err := c.Cookie(h.session.CookieName); err == nil && sessionID != "" {
		account, session, err := h.auth.CheckSession(ctx, sessionID)
		if err == nil {
			respond(c, http.StatusOK, true, "Authenticated", gin.H{
				"authenticated": true,
				"user":          userPayloadWithVerification(account),
				"expires_at":    session.ExpiresAt.UTC().Format(time.RFC3339),
			})
			return
		}
		if !errors.Is(err, usecase.ErrUnauthenticated) {
			respondWithMappedError(c, err)
			return
		}
		h.clearCookie(c, h.session.CookieName)
	}

	// Fall back to the remember-me token and mint a fresh session from it.
	if raw, err := c.Cookie(h.session.RememberCookieName); err == nil && raw != "" {
		result, err := h.auth.RedeemRememberToken(ctx, raw)
		if err == nil {
			h.setSessionCookie(c, result.Session.ID)
			respond(c, http.StatusOK, true, "Authenticated", gin.H{
				"authenticated": true,
				"user":          userPayloadWithVerification(&result.Account),
				"expires_at":    result.Session.ExpiresAt.UTC().Format(time.RFC3339),
			})
			return
		}
		if !errors.Is(err, usecase.ErrUnauthenticated) {
			respondWithMappedError(c, err)
			return
		}
		h.clearCookie(c, h.session.RememberCookieName)
	}

	respond(c, http.StatusUnauthorized, false, msgNotAuthenticated, gin.H{"authenticated": false})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, id, int(h.session.TTL.Seconds()), "/", h.session.CookieDomain, h.session.CookieSecure, true)
}

func (h *AuthHandler) setRememberCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.RememberCookieName, token, int(h.session.RememberTTL.Seconds()), "/", h.session.CookieDomain, h.session.CookieSecure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", h.session.CookieDomain, h.session.CookieSecure, true)
}

// action resolves the requested operation from the query string first, then
// the form body, falling back to the endpoint default.
func action(c *gin.Context, fallback string) string {
	if a := c.Query("action"); a != "" {
		return a
	}
	if a := c.PostForm("action"); a != "" {
		return a
	}
	return fallback
}

func requirePost(c *gin.Context) bool {
	if c.Request.Method != http.MethodPost {
		respond(c, http.StatusMethodNotAllowed, false, msgMethodNotAllowed, nil)
		return false
	}
	return true
}

// bindRequest decodes the request into dst, honoring the declared content
// type. It writes the error response itself and reports success.
func bindRequest(c *gin.Context, dst any) bool {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(dst); err != nil {
			respond(c, http.StatusBadRequest, false, msgInvalidJSON, nil)
			return false
		}
		return true
	}
	if err := c.ShouldBind(dst); err != nil {
		respond(c, http.StatusBadRequest, false, msgInvalidJSON, nil)
		return false
	}
	return true
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/savoro/catering-auth/internal/infra/config"
	"github.com/savoro/catering-auth/internal/usecase"
)

const msgAccountCreated = "Account created successfully! Welcome to our catering service."

// AccountHandler serves the /api/account endpoint. The concrete operation is
// selected by the action parameter, signup being the default.
type AccountHandler struct {
	registration *usecase.RegistrationService
	session      config.SessionSettings
	logger       *zap.Logger
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(registration *usecase.RegistrationService, session config.SessionSettings, log *zap.Logger) *AccountHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountHandler{registration: registration, session: session, logger: log}
}

// Handle dispatches signup and check_email based on the action parameter.
func (h *AccountHandler) Handle(c *gin.Context) {
	switch action(c, "signup") {
	case "signup":
		if !requirePost(c) {
			return
		}
		h.signup(c)
	case "check_email":
		if !requirePost(c) {
			return
		}
		h.checkEmail(c)
	default:
		respond(c, http.StatusBadRequest, false, msgInvalidAction, nil)
	}
}

func (h *AccountHandler) signup(c *gin.Context) {
	var req SignupRequest
	if !bindRequest(c, &req) {
		return
	}

	result, err := h.registration.Register(c.Request.Context(), usecase.RegistrationInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		respondWithMappedError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, result.Session.ID, int(h.session.TTL.Seconds()), "/", h.session.CookieDomain, h.session.CookieSecure, true)

	respond(c, http.StatusCreated, true, msgAccountCreated, gin.H{
		"user":     userPayload(&result.Account),
		"redirect": "/",
	})
}

func (h *AccountHandler) checkEmail(c *gin.Context) {
	var req CheckEmailRequest
	if !bindRequest(c, &req) {
		return
	}

	exists, err := h.registration.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}

	message := "Email address is available"
	if exists {
		message = msgEmailTaken
	}
	respond(c, http.StatusOK, true, message, gin.H{"exists": exists})
}

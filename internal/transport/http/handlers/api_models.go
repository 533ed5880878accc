package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/savoro/catering-auth/internal/core/domain"
)

// Envelope is the response shape shared by every API endpoint. Data is
// always present, an empty object when the endpoint has nothing to add.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

func respond(c *gin.Context, status int, success bool, message string, data any) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Envelope{
		Success:   success,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
}

// UserPayload is the account representation returned by login, signup and
// check_auth responses. The field names are part of the client contract and
// must stay camelCase.
type UserPayload struct {
	ID            int64  `json:"id"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"emailVerified,omitempty"`
}

func userPayload(account *domain.Account) UserPayload {
	return UserPayload{
		ID:       account.ID,
		FullName: account.FullName(),
		Email:    account.Email,
	}
}

func userPayloadWithVerification(account *domain.Account) UserPayload {
	p := userPayload(account)
	verified := account.EmailVerified
	p.EmailVerified = &verified
	return p
}

// LoginRequest carries the credentials submitted to the login action. Both
// JSON bodies and classic form posts are accepted.
type LoginRequest struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"rememberMe" form:"rememberMe"`
}

// SignupRequest carries the fields submitted to the signup action.
type SignupRequest struct {
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
	Email     string `json:"email" form:"email"`
	Phone     string `json:"phone" form:"phone"`
	Password  string `json:"password" form:"password"`
}

// CheckEmailRequest carries the email probed by the check_email action.
type CheckEmailRequest struct {
	Email string `json:"email" form:"email"`
}

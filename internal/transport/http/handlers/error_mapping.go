package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/savoro/catering-auth/internal/usecase"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgAccountSuspended   = "Your account has been suspended. Please contact support."
	msgEmailTaken         = "Email address is already registered"
	msgRateLimited        = "Rate limit exceeded. Please try again later."
	msgNotAuthenticated   = "Not authenticated"
	msgInternalError      = "An unexpected error occurred. Please try again later."
)

// ErrorCase maps a sentinel error onto an HTTP status and user-facing message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

var authErrorCases = []ErrorCase{
	{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: msgInvalidCredentials},
	{Err: usecase.ErrAccountSuspended, Status: http.StatusForbidden, Message: msgAccountSuspended},
	{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: msgEmailTaken},
	{Err: usecase.ErrUnauthenticated, Status: http.StatusUnauthorized, Message: msgNotAuthenticated},
}

// respondWithMappedError translates usecase errors into envelope responses.
// Unrecognized errors become an opaque 500 so internals never leak.
func respondWithMappedError(c *gin.Context, err error) {
	var validation *usecase.ValidationError
	if errors.As(err, &validation) {
		message := strings.Join(validation.Violations, ", ")
		respond(c, http.StatusBadRequest, false, message, gin.H{"errors": validation.Violations})
		return
	}

	var limited *usecase.RateLimitExceededError
	if errors.As(err, &limited) {
		seconds := int(math.Ceil(limited.RetryAfter.Seconds()))
		if seconds < 0 {
			seconds = 0
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		respond(c, http.StatusTooManyRequests, false, msgRateLimited, gin.H{"retry_after": seconds})
		return
	}

	for _, mapped := range authErrorCases {
		if errors.Is(err, mapped.Err) {
			respond(c, mapped.Status, false, mapped.Message, nil)
			return
		}
	}

	// Attach the cause so the access logger reports it server-side; the
	// client only ever sees the opaque message.
	_ = c.Error(err)
	respond(c, http.StatusInternalServerError, false, msgInternalError, nil)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// statusFor maps a classified service error to an HTTP status.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.InvalidInput:
		return http.StatusBadRequest
	case apperrors.Conflict:
		return http.StatusConflict
	case apperrors.InsufficientFunds:
		return http.StatusPaymentRequired
	case apperrors.PreconditionFailed:
		return http.StatusUnprocessableEntity
	case apperrors.Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the classified error as a JSON response. Internal
// details are not leaked; the kind string gives the client something
// machine-checkable.
func respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	message := err.Error()
	if kind == apperrors.Internal {
		message = "internal server error"
	}
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": message, "code": kind.String()})
}

// currentUserID extracts the authenticated user's id set by the auth
// middleware. A missing or malformed id aborts with 401.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.ContextUserID))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication context"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathObjectID parses an ObjectID path parameter.
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/attendly/attendance-api/internal/api/handler/v1/response"
	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/pkg/jwthelper"
)

const (
	ContextKeyUserID   = "userID"
	ContextKeyUserRole = "userRole"
)

var (
	errMissingAuthHeader = errors.New("missing or malformed Authorization header")
	errInvalidToken      = errors.New("invalid or expired token")
	errAdminOnly         = errors.New("admin access required")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingAuthHeader))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(errInvalidToken))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Set(ContextKeyUserRole, claims.Role)
		ctx.Next()
	}
}

// RequireAdmin must run after VerifyJWT.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString(ContextKeyUserRole) != domain.RoleAdmin {
			response.RenderErr(ctx, response.ErrForbidden(errAdminOnly))
			return
		}

		ctx.Next()
	}
}

// UserIDFromContext returns the authenticated user's ID, or 0 when the
// request carried no valid identity.
func UserIDFromContext(ctx *gin.Context) uint {
	id, ok := ctx.Get(ContextKeyUserID)
	if !ok {
		return 0
	}

	userID, ok := id.(uint)
	if !ok {
		return 0
	}

	return userID
}

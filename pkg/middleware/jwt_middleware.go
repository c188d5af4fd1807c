package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"holou/pkg/utils"
)

const (
	ctxStaffSubject = "staff_subject"
	ctxStaffRole    = "staff_role"
)

// JWTAuthMiddleware accepts only requests carrying a bearer token signed by
// issuer. The token's subject and role are stored on the context.
func JWTAuthMiddleware(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		claims, err := issuer.ValidateToken(token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxStaffSubject, claims.Subject)
		c.Set(ctxStaffRole, claims.Role)
		c.Next()
	}
}

// RoleMiddleware must run after JWTAuthMiddleware.
func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxStaffRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
		c.Abort()
	}
}

// StaffSubject is the username of the authenticated staff member, if any.
func StaffSubject(c *gin.Context) string {
	return c.GetString(ctxStaffSubject)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

package server

import (
	"net/http"
	"strings"

	"github.com/breezehr/breeze/internal/orgcontext"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const (
	headerOrgID   = "X-Org-ID"
	headerOrgRole = "X-Org-Role"
)

// OrganizationIdentity resolves the caller's organization from the identity
// headers set by the authenticating gateway. Requests arriving without a
// resolvable organization never reach a handler.
func (s *Server) OrganizationIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerOrgID))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "invalid_organization",
				"message": "organization context missing",
			}})
			return
		}

		orgID, err := snowflake.ParseString(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "invalid_organization",
				"message": "organization context missing",
			}})
			return
		}

		admin := strings.EqualFold(strings.TrimSpace(c.GetHeader(headerOrgRole)), "admin")
		ctx := orgcontext.WithOrg(c.Request.Context(), orgID, admin)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AdminRequired guards the mutating billing routes.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !orgcontext.IsAdmin(c.Request.Context()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{
				"code":    "admin_required",
				"message": "billing changes require an organization admin",
			}})
			return
		}
		c.Next()
	}
}

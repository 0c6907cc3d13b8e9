package middleware

import (
	"net/http"

	"authportal/config"
	"authportal/internal/auth"
	"authportal/model"

	"github.com/gin-gonic/gin"
)

// PrincipalKey is the gin context key the authenticated principal is
// stored under for downstream handlers.
const PrincipalKey = "principal"

// AuthMiddleware gates protected pages: without a valid, non-revoked
// session cookie the request is redirected to the entry page.
func AuthMiddleware(session *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c, session)
		if !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// CurrentPrincipal resolves the session cookie into a principal.
// Missing, blacklisted, expired or tampered tokens all read as "no
// active session".
func CurrentPrincipal(c *gin.Context, session *auth.SessionManager) (model.Principal, bool) {
	token, err := c.Cookie(config.GlobalConfig.Session.CookieName)
	if err != nil || token == "" {
		return model.Principal{}, false
	}

	in, _ := session.InBlackList(token)
	if in {
		return model.Principal{}, false
	}

	claims, err := auth.ParseSessionToken(token)
	if err != nil {
		return model.Principal{}, false
	}
	return claims.Principal, true
}

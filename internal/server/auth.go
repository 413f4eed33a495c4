package server

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthRequired gates the report routes with HTTP basic auth. The encoded
// credentials may arrive either as an Authorization header or as a
// ?token= query parameter so download links keep working without a
// browser prompt.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token := c.Query("token"); token != "" {
			header = "Basic " + token
		}

		if !s.isAuthorized(header) {
			c.Header("WWW-Authenticate", `Basic realm="Secured Area"`)
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Next()
	}
}

func (s *Server) isAuthorized(header string) bool {
	if !strings.HasPrefix(header, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		return false
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AuthUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AuthPassword)) == 1
	return userOK && passOK
}

// Token returns the encoded credential usable as ?token= in links.
func (s *Server) Token() string {
	return base64.StdEncoding.EncodeToString([]byte(s.cfg.AuthUsername + ":" + s.cfg.AuthPassword))
}

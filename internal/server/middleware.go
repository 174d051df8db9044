package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oszuidwest/zwfm-sessionguard/internal/utils"
)

// requestLogging logs HTTP requests with timing and status information.
func (s *Server) requestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := generateRequestID()
		c.Header("X-Request-ID", requestID)

		c.Next()

		s.logger.HTTPRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), requestID)
	}
}

// generateRequestID generates a random 8-character hex string for request identification.
func generateRequestID() string {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return hex.EncodeToString([]byte{byte(time.Now().Unix())})
	}
	return hex.EncodeToString(bytes)
}

// authenticate guards mutating endpoints with a constant-time API key
// check. With no secret configured, mutating requests are rejected.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		expectedSecret := s.config.APISecret
		if expectedSecret == "" {
			utils.HTTPResponder.Unauthorized(c)
			c.Abort()
			return
		}

		// Check X-API-Key header (most common pattern).
		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
			if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedSecret)) == 1 {
				c.Next()
				return
			}
		}

		// Check Authorization header with Bearer token.
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if token, found := strings.CutPrefix(authHeader, "Bearer "); found {
				if subtle.ConstantTimeCompare([]byte(token), []byte(expectedSecret)) == 1 {
					c.Next()
					return
				}
			}
		}

		utils.HTTPResponder.Unauthorized(c)
		c.Abort()
	}
}

package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const ctxPartnerID = "partnerId"
const ctxEmail = "email"

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Retry-After"},
		MaxAge:        12 * time.Hour,
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("[api] request")
	}
}

// bearerToken reads the token from the Authorization header, or from the
// token query parameter when allowQuery is set (browsers cannot set headers
// on websocket upgrades).
func bearerToken(c *gin.Context, allowQuery bool) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if allowQuery {
		return c.Query("token")
	}
	return ""
}

func (s *Server) authMiddleware(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c, allowQuery)
		if raw == "" {
			unauthorized(c, "missing or invalid token")
			return
		}
		claims, err := s.sessions.Parse(raw)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}
		c.Set(ctxPartnerID, claims.PartnerID)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

func currentPartnerID(c *gin.Context) string {
	return c.GetString(ctxPartnerID)
}

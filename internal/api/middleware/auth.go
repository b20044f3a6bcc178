package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/courtsight/nba-dashboard/pkg/utils"
)

// ContextEditor is the gin context key holding the authenticated editor's
// claims.
const ContextEditor = "editor"

// EditorClaims identifies a dashboard editor allowed to pin minutes, post
// prop lines, and trigger ingest runs.
type EditorClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// bearerToken extracts the token from the Authorization header. Empty when
// the header is missing or not a bearer scheme.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return token
}

func parseEditorToken(tokenString, secret string) (*EditorClaims, error) {
	claims := &EditorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// AuthRequired rejects requests without a valid editor token.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.SendUnauthorized(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := parseEditorToken(tokenString, jwtSecret)
		if err != nil {
			utils.SendUnauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextEditor, claims)
		c.Next()
	}
}

// OptionalAuth attaches editor claims when a valid token is present but never
// rejects the request.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := parseEditorToken(tokenString, jwtSecret); err == nil {
				c.Set(ContextEditor, claims)
			}
		}
		c.Next()
	}
}

package httpx

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey = "user_id"
	roleKey   = "user_role"

	RoleAdmin = "ADMIN"
)

// Claims are issued by the account service; this service only verifies them.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth verifies an HS256 bearer token and stores the caller's id and role on the context.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token"})
			return
		}
		var claims Claims
		_, err := parser.ParseWithClaims(strings.TrimPrefix(h, "Bearer "), &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil || claims.ID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, token failed"})
			return
		}
		c.Set(userIDKey, claims.ID)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// AdminOnly must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(roleKey) != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not authorized as admin"})
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) string { return c.GetString(userIDKey) }

func Role(c *gin.Context) string { return c.GetString(roleKey) }

package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"shyftcut/api/logger"
	"shyftcut/api/models"
)

// UserKey is the gin context key the verified claims are stored under.
const UserKey = "user"

// AuthMiddleware verifies the Supabase bearer token on every /api request.
// An unauthenticated caller never reaches entitlement evaluation; the 401
// here is the fail-closed path.
func AuthMiddleware(c *gin.Context) {
	tokenString := extractToken(c.Request)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
		c.Abort()
		return
	}

	claims, err := ParseSupabaseToken(tokenString)
	if err != nil {
		logger.Get().Warn("token verification failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
		c.Abort()
		return
	}

	c.Set(UserKey, claims)
	c.Next()
}

// ParseSupabaseToken validates an HS256 Supabase access token and returns
// its claims. Shared by the header-based middleware and the SSE endpoint,
// which carries the token in a query parameter.
func ParseSupabaseToken(tokenString string) (*models.SupabaseClaims, error) {
	claims := &models.SupabaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		secret := os.Getenv("SUPABASE_JWT_SECRET")
		if secret == "" {
			return nil, fmt.Errorf("SUPABASE_JWT_SECRET environment variable not set")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Issuer != os.Getenv("SUPABASE_URL")+"/auth/v1" {
		return nil, fmt.Errorf("invalid token issuer")
	}
	return claims, nil
}

// CurrentUser returns the verified claims set by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.SupabaseClaims, bool) {
	user, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	claims, ok := user.(*models.SupabaseClaims)
	return claims, ok
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

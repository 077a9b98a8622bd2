package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Divy2003/realstate/config"
)

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Kind   string `json:"kind"` // access, refresh
	jwt.RegisteredClaims
}

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// GenerateToken generates a signed access token for a user
func GenerateToken(userID, email, role string, cfg *config.AuthConfig) (string, time.Time, error) {
	return signToken(userID, email, role, TokenAccess,
		time.Duration(cfg.TokenExpireHours)*time.Hour, cfg.JWTSecret)
}

// GenerateRefreshToken generates the longer-lived refresh counterpart
func GenerateRefreshToken(userID, email, role string, cfg *config.AuthConfig) (string, time.Time, error) {
	return signToken(userID, email, role, TokenRefresh,
		time.Duration(cfg.RefreshExpireHours)*time.Hour, cfg.JWTSecret)
}

func signToken(userID, email, role, kind string, ttl time.Duration, secret string) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)

	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseToken verifies a token's signature and expiry and returns its claims.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
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

// Auth validates the bearer token and stores the caller's identity in the
// gin context. Refresh tokens are rejected here; they are only good for the
// refresh endpoint.
func Auth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header required",
			})
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid authorization header format",
			})
			return
		}

		claims, err := ParseToken(parts[1], cfg.JWTSecret)
		if err != nil || claims.Kind != TokenAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireAdmin gates a route group on the admin role claim. Must run after
// Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

// GetUserID gets the authenticated user's id from context
func GetUserID(c *gin.Context) string {
	if v, exists := c.Get("user_id"); exists {
		return v.(string)
	}
	return ""
}

// GetEmail gets the authenticated user's email from context
func GetEmail(c *gin.Context) string {
	if v, exists := c.Get("email"); exists {
		return v.(string)
	}
	return ""
}

// GetRole gets the authenticated user's role from context
func GetRole(c *gin.Context) string {
	if v, exists := c.Get("role"); exists {
		return v.(string)
	}
	return ""
}

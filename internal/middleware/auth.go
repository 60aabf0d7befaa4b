package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
)

const (
	ContextRole     = "role"
	ContextClientID = "clienteID"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// AuthMiddleware validates the bearer token and stores the caller's role
// (and client id, for clients) in the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "expected a bearer token")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "invalid_token_claims", "invalid token claims")
			return
		}

		role, _ := claims["role"].(string)
		switch role {
		case RoleAdmin:
		case RoleClient:
			clientID, ok := claims["cliente_id"].(float64)
			if !ok || clientID <= 0 {
				httperr.Unauthorized(c, "invalid_token_payload", "client tokens must carry cliente_id")
				return
			}
			c.Set(ContextClientID, uint(clientID))
		default:
			httperr.Unauthorized(c, "invalid_token_payload", "unknown role")
			return
		}

		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != RoleAdmin {
			httperr.Forbidden(c, "admin_only", "this action requires an administrator")
			return
		}
		c.Next()
	}
}

// IssueToken signs an HS256 token in the format AuthMiddleware expects.
// clientID is ignored for admins.
func IssueToken(secret, role string, clientID uint, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	if role == RoleClient {
		claims["cliente_id"] = clientID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

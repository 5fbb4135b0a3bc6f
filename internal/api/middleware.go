package api

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextRequestIDKey = "requestID"
)

const (
	headerRequestID = "X-Request-ID"
	sessionCookie   = "__session" // Set by the identity provider's frontend SDK
)

// sessionClaims is the subset of a Clerk session token we rely on.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// ParseSessionKey parses the PEM-encoded public key that signs session tokens.
// An empty pem yields a nil key and no error.
func ParseSessionKey(pem string) (*rsa.PublicKey, error) {
	pem = strings.TrimSpace(pem)
	if pem == "" {
		return nil, nil
	}
	// Keys passed through env files often carry escaped newlines
	pem = strings.ReplaceAll(pem, `\n`, "\n")
	return jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
}

// SessionMiddleware authenticates Clerk session tokens from the Authorization header or the
// session cookie. With required=false, requests without a valid session continue anonymously.
func SessionMiddleware(key *rsa.PublicKey, required bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := sessionToken(c)
		if tokenString == "" {
			if required {
				abortWithError(c, http.StatusUnauthorized, "Authorization is required")
				return
			}
			c.Next()
			return
		}

		if key == nil {
			if required {
				abortWithError(c, http.StatusInternalServerError, "CLERK_JWT_KEY is not set")
				return
			}
			c.Next()
			return
		}

		userID, err := verifySession(tokenString, key)
		if err != nil {
			if required {
				if errors.Is(err, jwt.ErrTokenExpired) {
					abortWithError(c, http.StatusUnauthorized, "Token has expired")
				} else {
					abortWithError(c, http.StatusUnauthorized, "Invalid token")
				}
				return
			}
			logger.Debug("ignoring invalid session token", zap.Error(err))
			c.Next()
			return
		}

		// --- Token is valid ---
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		// Expecting "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}

func verifySession(tokenString string, key *rsa.PublicKey) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token or missing subject")
	}
	return claims.Subject, nil
}

// RequestID tags every request with an id, reusing the caller's X-Request-ID when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// RequestLogger writes one log line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(ContextRequestIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get the session user id from context (set by SessionMiddleware)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

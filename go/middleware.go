package inventoryserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accountapp "github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/application"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
	apierrors "github.com/Apurer/go-gin-inventory-api/internal/shared/errors"
)

// HeaderRequestID carries the request identifier in and out.
const HeaderRequestID = "X-Request-ID"

const tokenContextKey = "inventory.session_token"

// PrincipalResolver turns a session token into a principal.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (authz.Principal, error)
}

// RequestID propagates the caller's request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger writes one structured line per request, including errors
// attached by the problem responder.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("request_id", c.GetString(HeaderRequestID)),
		}
		level := slog.LevelInfo
		if len(c.Errors) > 0 {
			level = slog.LevelError
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}
		logger.LogAttrs(c.Request.Context(), level, "http request", attrs...)
	}
}

// Authenticate resolves "Authorization: Bearer <token>" (or "Token <token>")
// into a principal on the request context. Requests without credentials
// continue anonymously; unknown tokens are rejected with 401.
func Authenticate(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" || resolver == nil {
			c.Next()
			return
		}
		principal, err := resolver.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, accountapp.ErrAuthentication) {
				apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("Invalid token."))
				return
			}
			problemResponder.RespondError(c, err)
			return
		}
		c.Set(tokenContextKey, token)
		c.Request = c.Request.WithContext(authz.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !principalFrom(c).IsAuthenticated() {
			apierrors.Respond(c, apierrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) authz.Principal {
	return authz.FromContext(c.Request.Context())
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return ""
	}
	return strings.TrimSpace(token)
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

const (
	AuthorizationHeader = "Authorization"
	bearer              = "Bearer "
)

// SessionChecker reports whether the session behind a token is still open
// and returns the user's current role.
type SessionChecker interface {
	SessionRole(ctx context.Context, sessionID string, userID int) (role string, ok bool, err error)
}

func JwtAuthentication(tokens *auth.TokenManager, sessions SessionChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorization := c.Request().Header.Get(AuthorizationHeader)
			if authorization == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
			}
			if !strings.HasPrefix(authorization, bearer) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization Header")
			}
			claims, err := tokens.Parse(strings.TrimPrefix(authorization, bearer))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
			}

			req := c.Request()
			// The stored role wins over the claim, so a role change applies to open sessions.
			role, ok, err := sessions.SessionRole(req.Context(), claims.ID, claims.Profile.UserID)
			if err != nil {
				return err
			}
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
			}

			ctx := auth.SetAuthContext(req.Context(), auth.Identity{
				UserID:    claims.Profile.UserID,
				Role:      role,
				SessionID: claims.ID,
			})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// RequireRole must run after JwtAuthentication.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := auth.FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
			}
			for _, role := range roles {
				if id.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
		}
	}
}

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func RequestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	log = log.Named("echo")
	return middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
				if v.Status < http.StatusInternalServerError {
					level = zapcore.WarnLevel
				}
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
}

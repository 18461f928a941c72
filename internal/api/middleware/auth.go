package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hostel-booking/internal/pkg/auth"
)

const (
	contextKeyUserID = "auth.user_id"
	contextKeyRole   = "auth.role"
)

// TokenParser はアクセストークンを検証する
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// JWTAuth は Authorization: Bearer トークンを検証し、ユーザーIDとロールをコンテキストに載せる
func JWTAuth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
			}

			claims, err := parser.Parse(strings.TrimSpace(token))
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrTokenExpired.Error())
				}
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			}

			c.Set(contextKeyUserID, claims.UserID())
			c.Set(contextKeyRole, claims.Role)
			return next(c)
		}
	}
}

// RequireRole は指定ロール以外のリクエストを拒否する
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUserID(c) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
			}
			if CurrentRole(c) != role {
				return echo.NewHTTPError(http.StatusForbidden, "この操作を行う権限がありません")
			}
			return next(c)
		}
	}
}

// CurrentUserID は認証済みユーザーのIDを返す
func CurrentUserID(c echo.Context) string {
	id, _ := c.Get(contextKeyUserID).(string)
	return id
}

// CurrentRole は認証済みユーザーのロールを返す
func CurrentRole(c echo.Context) string {
	role, _ := c.Get(contextKeyRole).(string)
	return role
}

// SetCurrentUser は認証済みユーザーをコンテキストに設定する
func SetCurrentUser(c echo.Context, userID, role string) {
	c.Set(contextKeyUserID, userID)
	c.Set(contextKeyRole, role)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hostel-booking/internal/api/middleware"
)

// pagination は limit/offset クエリを読み取る。不正値や負数は0として扱う
func pagination(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func currentUser(c echo.Context) (string, error) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
	}
	return userID, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	return c.Validate(req)
}

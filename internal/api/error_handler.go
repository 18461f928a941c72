package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/booking"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/review"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/user"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/logger"
)

// エラーコード
const (
	CodeHostelNotFound      = "HOSTEL_NOT_FOUND"
	CodeRoomTypeNotFound    = "ROOM_TYPE_NOT_FOUND"
	CodeBookingNotFound     = "BOOKING_NOT_FOUND"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeNoSeatsAvailable    = "NO_SEATS_AVAILABLE"
	CodeHostelBusy          = "HOSTEL_BUSY"
	CodeAccessDenied        = "ACCESS_DENIED"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeInvalidRating       = "INVALID_RATING"
	CodeValidationError     = "VALIDATION_ERROR"
	CodeEmailAlreadyExists  = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeConflict            = "CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalServerError = "INTERNAL_ERROR"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"code,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Details   string `json:"details,omitempty"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

var domainErrors = []errorMapping{
	{hostel.ErrHostelNotFound, http.StatusNotFound, CodeHostelNotFound},
	{hostel.ErrRoomTypeNotFound, http.StatusNotFound, CodeRoomTypeNotFound},
	{booking.ErrBookingNotFound, http.StatusNotFound, CodeBookingNotFound},
	{user.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},
	{hostel.ErrNoSeatsAvailable, http.StatusConflict, CodeNoSeatsAvailable},
	{hostel.ErrHostelBusy, http.StatusConflict, CodeHostelBusy},
	{hostel.ErrAccessDenied, http.StatusForbidden, CodeAccessDenied},
	{booking.ErrAccessDenied, http.StatusForbidden, CodeAccessDenied},
	{booking.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition},
	{review.ErrInvalidRating, http.StatusBadRequest, CodeInvalidRating},
	{user.ErrEmailAlreadyExists, http.StatusConflict, CodeEmailAlreadyExists},
	{user.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{hostel.ErrOptimisticLockConflict, http.StatusConflict, CodeConflict},
	{hostel.ErrCapacityBelowOccupancy, http.StatusConflict, CodeConflict},
	{hostel.ErrRoomInUse, http.StatusConflict, CodeConflict},
}

// 入力値の検証エラー
var validationErrors = []error{
	hostel.ErrNameRequired,
	hostel.ErrLocationRequired,
	hostel.ErrOwnerRequired,
	hostel.ErrInvalidHostelType,
	hostel.ErrInvalidRoomType,
	hostel.ErrInvalidPrice,
	hostel.ErrInvalidTotalSeats,
	hostel.ErrInvalidOccupancy,
	hostel.ErrDuplicateRoomType,
	booking.ErrInvalidStatus,
	booking.ErrUserIDRequired,
	booking.ErrHostelIDRequired,
	booking.ErrRoomTypeRequired,
	booking.ErrCheckInDateRequired,
	booking.ErrInvalidPrice,
	review.ErrUserIDRequired,
	review.ErrHostelIDRequired,
	review.ErrCommentTooLong,
	user.ErrNameRequired,
	user.ErrInvalidEmail,
	user.ErrPasswordTooShort,
	user.ErrInvalidRole,
}

// ResolveError はエラーをHTTPステータスとエラーコードに変換する
func ResolveError(err error) (status int, code, message string) {
	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			return m.status, m.code, m.target.Error()
		}
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest, CodeValidationError, v.Error()
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		return he.Code, codeForStatus(he.Code), message
	}

	return http.StatusInternalServerError, CodeInternalServerError, "内部サーバーエラー"
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidationError
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeAccessDenied
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeTooManyRequests
	}
	if status >= 500 {
		return CodeInternalServerError
	}
	return ""
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, errorCode, message := ResolveError(err)

	// 5xx は詳細をログにだけ残す
	if code >= 500 {
		logger.FromContext(c.Request().Context()).Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
		message = "内部サーバーエラー"
	}

	if c.Request().Method == http.MethodHead {
		if err := c.NoContent(code); err != nil {
			logger.Error("エラーレスポンス送信失敗", zap.Error(err))
		}
		return
	}

	if err := c.JSON(code, ErrorResponse{
		Error:     message,
		Code:      code,
		ErrorCode: errorCode,
	}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}

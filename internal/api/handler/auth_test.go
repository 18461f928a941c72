package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-hostel-booking/internal/api"
	"github.com/sanosuguru/go-hostel-booking/internal/application"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/user"
)

func TestAuthHandler_Register(t *testing.T) {
	e := NewTestEcho()
	expiresAt := time.Now().Add(time.Hour)

	t.Run("登録してトークンを返す", func(t *testing.T) {
		users := new(MockUserService)
		tokens := new(MockTokenIssuer)
		registered := &user.User{ID: "user-1", Name: "山田太郎", Email: "taro@example.com", Role: user.RoleOwner}
		users.On("Register", mock.Anything, application.RegisterInput{
			Name: "山田太郎", Email: "taro@example.com", Password: "secret123", Role: user.RoleOwner,
		}).Return(registered, nil)
		tokens.On("Issue", "user-1", "owner").Return("token-abc", expiresAt, nil)

		rec := call(e, NewAuthHandler(users, tokens).Register, testRequest{
			method: http.MethodPost, path: "/auth/register",
			body: `{"name":"山田太郎","email":"taro@example.com","password":"secret123","role":"owner"}`,
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "token-abc", resp.Token)
		assert.Equal(t, "user-1", resp.User.ID)
		assert.Equal(t, "owner", resp.User.Role)
		assert.NotContains(t, rec.Body.String(), "password")
		users.AssertExpectations(t)
	})

	t.Run("ロール省略時は学生", func(t *testing.T) {
		users := new(MockUserService)
		tokens := new(MockTokenIssuer)
		users.On("Register", mock.Anything, mock.MatchedBy(func(in application.RegisterInput) bool {
			return in.Role == user.RoleStudent
		})).Return(&user.User{ID: "user-2", Role: user.RoleStudent}, nil)
		tokens.On("Issue", "user-2", "student").Return("token", expiresAt, nil)

		rec := call(e, NewAuthHandler(users, tokens).Register, testRequest{
			method: http.MethodPost, path: "/auth/register",
			body: `{"name":"学生","email":"s@example.com","password":"secret123"}`,
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("バリデーションエラー", func(t *testing.T) {
		rec := call(e, NewAuthHandler(new(MockUserService), new(MockTokenIssuer)).Register, testRequest{
			method: http.MethodPost, path: "/auth/register",
			body: `{"name":"","email":"not-an-email","password":"123"}`,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, api.CodeValidationError, resp.ErrorCode)
	})

	t.Run("メールアドレスの重複は409", func(t *testing.T) {
		users := new(MockUserService)
		users.On("Register", mock.Anything, mock.Anything).Return(nil, user.ErrEmailAlreadyExists)

		rec := call(e, NewAuthHandler(users, new(MockTokenIssuer)).Register, testRequest{
			method: http.MethodPost, path: "/auth/register",
			body: `{"name":"山田","email":"taro@example.com","password":"secret123"}`,
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), api.CodeEmailAlreadyExists)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	e := NewTestEcho()

	t.Run("ログインに成功する", func(t *testing.T) {
		users := new(MockUserService)
		tokens := new(MockTokenIssuer)
		users.On("Authenticate", mock.Anything, "taro@example.com", "secret123").
			Return(&user.User{ID: "user-1", Role: user.RoleStudent}, nil)
		tokens.On("Issue", "user-1", "student").Return("token-abc", time.Now().Add(time.Hour), nil)

		rec := call(e, NewAuthHandler(users, tokens).Login, testRequest{
			method: http.MethodPost, path: "/auth/login",
			body: `{"email":"taro@example.com","password":"secret123"}`,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "token-abc")
	})

	t.Run("認証情報が誤っていれば401", func(t *testing.T) {
		users := new(MockUserService)
		users.On("Authenticate", mock.Anything, "taro@example.com", "wrong").Return(nil, user.ErrInvalidCredentials)

		rec := call(e, NewAuthHandler(users, new(MockTokenIssuer)).Login, testRequest{
			method: http.MethodPost, path: "/auth/login",
			body: `{"email":"taro@example.com","password":"wrong"}`,
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), api.CodeInvalidCredentials)
	})
}

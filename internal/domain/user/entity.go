package user

import (
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role はユーザーのロールを表す
type Role string

const (
	RoleStudent Role = "student"
	RoleOwner   Role = "owner"
)

const MinPasswordLength = 6

// ParseRole は外部入力を Role に変換する
// 空文字は student として扱う
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "student", "user":
		return RoleStudent, nil
	case "owner":
		return RoleOwner, nil
	}
	return "", ErrInvalidRole
}

// User はユーザーエンティティを表す
// PasswordHash はレスポンスに含めないこと
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	Phone          string
	JoinedAt       time.Time
	SavedHostelIDs []string
}

// NewUser は新しいユーザーを作成し、パスワードをハッシュ化する
func NewUser(name, email, password string, role Role, phone string) (*User, error) {
	u := &User{
		Name:     strings.TrimSpace(name),
		Email:    NormalizeEmail(email),
		Role:     role,
		Phone:    strings.TrimSpace(phone),
		JoinedAt: time.Now(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail はメールアドレスを小文字化・トリムする
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword はパスワードを bcrypt でハッシュ化して保持する
func (u *User) SetPassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword はパスワードがハッシュと一致するかを返す
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsOwner はオーナーロールかを返す
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// HasSaved は保存済みホステルに含まれるかを返す
func (u *User) HasSaved(hostelID string) bool {
	for _, id := range u.SavedHostelIDs {
		if id == hostelID {
			return true
		}
	}
	return false
}

// Validate はユーザーの検証を行う
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrNameRequired
	}
	if _, err := mail.ParseAddress(u.Email); err != nil || u.Email == "" {
		return ErrInvalidEmail
	}
	if u.Role != RoleStudent && u.Role != RoleOwner {
		return ErrInvalidRole
	}
	return nil
}

package application

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hostel-booking/internal/domain/hostel"
	"github.com/sanosuguru/go-hostel-booking/internal/domain/user"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/logger"
)

type UserService struct {
	userRepo   user.Repository
	hostelRepo hostel.Repository
}

func NewUserService(ur user.Repository, hr hostel.Repository) *UserService {
	return &UserService{userRepo: ur, hostelRepo: hr}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     user.Role
	Phone    string
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	u, err := user.NewUser(input.Name, input.Email, input.Password, input.Role, input.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("ユーザーを登録しました", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// Authenticate はメールアドレスとパスワードを照合する
// ユーザーが存在しない場合も ErrInvalidCredentials を返す
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.CheckPassword(password) {
		return nil, user.ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*user.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		u.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		u.Phone = strings.TrimSpace(*input.Phone)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) SaveHostel(ctx context.Context, userID, hostelID string) (*user.User, error) {
	if _, err := s.hostelRepo.GetByID(ctx, hostelID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveHostel(ctx, userID, hostelID); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) UnsaveHostel(ctx context.Context, userID, hostelID string) (*user.User, error) {
	if err := s.userRepo.UnsaveHostel(ctx, userID, hostelID); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

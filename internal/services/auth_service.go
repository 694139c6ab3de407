package services

import (
	"errors"
	"time"

	"healthtrack_backend/internal/auth"
	"healthtrack_backend/internal/config"
	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/logger"
	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/repositories"
	"healthtrack_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

func NewAuthService(userRepo repositories.UserRepository, refreshTokenRepo repositories.RefreshTokenRepository) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

func (s *AuthService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.UserRoleUser,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildAuthResponse(db, user)
}

func (s *AuthService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		return nil, apperrors.NewForbiddenError("Your account has been suspended")
	}

	return s.buildAuthResponse(db, user)
}

// Refresh exchanges a valid refresh token for a new access token and a
// rotated refresh token. The presented token is consumed either way: expired
// or unknown tokens are rejected, used ones are replaced.
func (s *AuthService) Refresh(db *gorm.DB, req *dto.RefreshTokenRequest) (*dto.AuthResponse, error) {
	token, err := s.refreshTokenRepo.FindByToken(db, req.RefreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if time.Now().After(token.ExpiresAt) {
		if delErr := s.refreshTokenRepo.DeleteByToken(db, req.RefreshToken); delErr != nil {
			logger.WithError(delErr).Warn("failed to delete expired refresh token")
		}
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, token.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.NewForbiddenError("Your account has been suspended")
	}

	// Rotation: the presented token is single-use.
	if err := s.refreshTokenRepo.DeleteByToken(db, req.RefreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildAuthResponse(db, user)
}

// Logout revokes the presented refresh token. Unknown tokens are treated as
// already logged out.
func (s *AuthService) Logout(db *gorm.DB, req *dto.LogoutRequest) error {
	if err := s.refreshTokenRepo.DeleteByToken(db, req.RefreshToken); err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthService) buildAuthResponse(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	cfg := config.GetConfig()
	rt := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(time.Duration(cfg.JWT.RefreshTTLDays) * 24 * time.Hour),
	}
	if err := s.refreshTokenRepo.Create(db, rt); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      string(user.Role),
			IsPremium: user.IsPremium,
		},
	}, nil
}

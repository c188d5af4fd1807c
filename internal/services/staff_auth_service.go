package services

import (
	"context"
	"crypto/subtle"
	"fmt"

	"holou/internal/models/request_models"
	"holou/pkg/logger"
	"holou/pkg/utils"
)

const RoleStaff = "staff"

type StaffAuthServiceInterface interface {
	Login(ctx context.Context, request request_models.StaffLoginRequest) (string, error)
}

type StaffAuthService struct {
	username     string
	passwordHash string
	issuer       *utils.TokenIssuer
	log          *logger.Logger
}

func NewStaffAuthService(username, passwordHash string, issuer *utils.TokenIssuer, log *logger.Logger) StaffAuthServiceInterface {
	return &StaffAuthService{
		username:     username,
		passwordHash: passwordHash,
		issuer:       issuer,
		log:          log.With("service", "StaffAuthService"),
	}
}

func (s *StaffAuthService) Login(_ context.Context, request request_models.StaffLoginRequest) (string, error) {
	if s.username == "" || s.passwordHash == "" {
		return "", utils.ErrStaffLoginDisabled
	}

	sameUser := subtle.ConstantTimeCompare([]byte(request.Username), []byte(s.username)) == 1
	// always run bcrypt so an unknown username costs the same
	passwordErr := utils.ComparePasswords(s.passwordHash, request.Password)
	if !sameUser || passwordErr != nil {
		s.log.Warn("staff login rejected", "username", request.Username)
		return "", utils.ErrInvalidCredentials
	}

	token, err := s.issuer.CreateToken(s.username, RoleStaff)
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrStaffLoginDisabled, err)
	}
	s.log.Info("staff login", "username", s.username)
	return token, nil
}

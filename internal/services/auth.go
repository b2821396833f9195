package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"alfredoptarigan/cv-coach/internal/models"
	"alfredoptarigan/cv-coach/internal/repositories"
)

type AuthService interface {
	Register(req *models.RegisterRequest) (*models.Candidate, error)
	Login(req *models.LoginRequest) (*models.LoginResponse, error)
	ParseToken(token string) (uuid.UUID, error)
	// Refresh issues a fresh token for a candidate already holding a valid one.
	Refresh(candidateID uuid.UUID) (*models.LoginResponse, error)
}

type authService struct {
	candidateRepo repositories.CandidateRepository
	secret        []byte
	tokenTTL      time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

func NewAuthService(candidateRepo repositories.CandidateRepository, secret string, tokenTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		candidateRepo: candidateRepo,
		secret:        []byte(secret),
		tokenTTL:      tokenTTL,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *authService) Register(req *models.RegisterRequest) (*models.Candidate, error) {
	if req.Password != req.ConfirmPassword {
		return nil, &ValidationError{
			Message: "passwords do not match",
			Fields:  map[string]string{"confirm_password": "must match password"},
		}
	}

	_, err := s.candidateRepo.FindByEmail(req.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, &ValidationError{
			Message: "password must be at most 72 bytes",
			Fields:  map[string]string{"password": "max"},
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	candidate := &models.Candidate{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.candidateRepo.Create(candidate); err != nil {
		return nil, err
	}

	s.logger.Info("candidate registered", zap.String("candidate_id", candidate.ID.String()))
	return candidate, nil
}

// Login never tells an unknown email apart from a wrong password.
func (s *authService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	candidate, err := s.candidateRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(candidate.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.candidateRepo.UpdateLastLogin(candidate.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.String("candidate_id", candidate.ID.String()), zap.Error(err))
	}

	return s.issueToken(candidate, now)
}

func (s *authService) Refresh(candidateID uuid.UUID) (*models.LoginResponse, error) {
	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	return s.issueToken(candidate, s.now())
}

func (s *authService) issueToken(candidate *models.Candidate, now time.Time) (*models.LoginResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": candidate.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		CandidateID: candidate.ID.String(),
		Name:        candidate.Name,
	}, nil
}

// ParseToken verifies an HS256 token and returns the candidate id in "sub".
func (s *authService) ParseToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return uuid.Nil, ErrUnauthorized
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, ErrUnauthorized
	}

	candidateID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return candidateID, nil
}

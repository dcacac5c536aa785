package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/data/repos"
	"github.com/pylearnhq/pylearn-backend/internal/domain"
	apperrors "github.com/pylearnhq/pylearn-backend/internal/pkg/errors"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/requestdata"
	"github.com/pylearnhq/pylearn-backend/internal/utils"
)

type AuthService interface {
	RegisterUser(ctx context.Context, email, displayName, password string) (*domain.User, error)
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
	IsAdmin(ctx context.Context) bool
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	loginRepo     repos.LoginEventRepo
	limiter       LoginLimiter
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	adminEmails   map[string]bool
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	loginRepo repos.LoginEventRepo,
	limiter LoginLimiter,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	adminEmails []string,
) AuthService {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		if normalized := utils.NormalizeEmail(email); normalized != "" {
			admins[normalized] = true
		}
	}
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		loginRepo:     loginRepo,
		limiter:       limiter,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		adminEmails:   admins,
	}
}

func (s *authService) RegisterUser(ctx context.Context, email, displayName, password string) (*domain.User, error) {
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateRegistration(email, displayName, password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, fmt.Errorf("%w: check existing user: %v", apperrors.ErrStoreUnavailable, err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    hash,
		DisplayName: displayName,
	}
	if _, err := s.userRepo.Create(ctx, nil, []*domain.User{user}); err != nil {
		return nil, fmt.Errorf("%w: create user: %v", apperrors.ErrStoreUnavailable, err)
	}
	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = utils.NormalizeEmail(email)

	locked, err := s.limiter.TooManyFailures(ctx, email)
	if err != nil {
		s.log.Warn("login limiter unavailable, allowing attempt", "error", err)
	} else if locked {
		return "", "", fmt.Errorf("too many failed attempts, try again later")
	}

	users, err := s.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", fmt.Errorf("%w: fetch user: %v", apperrors.ErrStoreUnavailable, err)
	}
	if len(users) == 0 || utils.CheckPassword(users[0].Password, password) != nil {
		if err := s.limiter.RecordFailure(ctx, email); err != nil {
			s.log.Warn("record login failure", "error", err)
		}
		return "", "", fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}
	user := users[0]

	var accessToken, refreshToken string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userTokenRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{user.ID}); err != nil {
			return fmt.Errorf("clear previous tokens: %w", err)
		}

		accessToken, err = s.generateAccessToken(user)
		if err != nil {
			return err
		}
		refreshToken = uuid.New().String()
		token := &domain.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(s.refreshTTL),
		}
		if _, err := s.userTokenRepo.Create(ctx, tx, []*domain.UserToken{token}); err != nil {
			return fmt.Errorf("create user token: %w", err)
		}

		event := &domain.LoginEvent{ID: uuid.New(), UserID: user.ID, CreatedAt: time.Now().UTC()}
		if _, err := s.loginRepo.Create(ctx, tx, []*domain.LoginEvent{event}); err != nil {
			return fmt.Errorf("record login event: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: login: %v", apperrors.ErrStoreUnavailable, err)
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn("reset login failures", "error", err)
	}
	return accessToken, refreshToken, nil
}

func (s *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	token, err := s.userTokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("%w: fetch token: %v", apperrors.ErrStoreUnavailable, err)
	}
	if token == nil || token.ExpiresAt.Before(time.Now()) {
		return "", "", fmt.Errorf("%w: invalid or expired refresh token", apperrors.ErrUnauthorized)
	}

	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{token.UserID})
	if err != nil {
		return "", "", fmt.Errorf("%w: fetch user: %v", apperrors.ErrStoreUnavailable, err)
	}
	if len(users) == 0 {
		return "", "", fmt.Errorf("%w: token user missing", apperrors.ErrUnknownReference)
	}
	user := users[0]

	var accessToken, newRefresh string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userTokenRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{user.ID}); err != nil {
			return fmt.Errorf("clear previous tokens: %w", err)
		}
		accessToken, err = s.generateAccessToken(user)
		if err != nil {
			return err
		}
		newRefresh = uuid.New().String()
		row := &domain.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefresh,
			ExpiresAt:    time.Now().Add(s.refreshTTL),
		}
		if _, err := s.userTokenRepo.Create(ctx, tx, []*domain.UserToken{row}); err != nil {
			return fmt.Errorf("create user token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: refresh: %v", apperrors.ErrStoreUnavailable, err)
	}
	return accessToken, newRefresh, nil
}

func (s *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("%w: not authenticated", apperrors.ErrUnauthorized)
	}
	if err := s.userTokenRepo.DeleteByUserIDs(ctx, nil, []uuid.UUID{rd.UserID}); err != nil {
		return fmt.Errorf("%w: delete tokens: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: malformed subject", apperrors.ErrUnauthorized)
	}

	email := ""
	if len(claims.Audience) > 0 {
		email = claims.Audience[0]
	}
	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Email:       email,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (s *authService) GetAccessTTL() time.Duration { return s.accessTTL }

func (s *authService) IsAdmin(ctx context.Context) bool {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return false
	}
	return s.adminEmails[utils.NormalizeEmail(rd.Email)]
}

func (s *authService) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		Audience:  jwt.ClaimStrings{user.Email},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

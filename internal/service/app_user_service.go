package service

import (
	"context"
	"strings"

	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/rs/zerolog"
)

// AppUserService handles operator management of admin-domain accounts.
type AppUserService struct {
	auth     *AuthService
	appUsers AppUserStore
	log      zerolog.Logger
}

// NewAppUserService creates a new AppUserService.
func NewAppUserService(auth *AuthService, appUsers AppUserStore, log zerolog.Logger) *AppUserService {
	return &AppUserService{
		auth:     auth,
		appUsers: appUsers,
		log:      log.With().Str("component", "app_user_service").Logger(),
	}
}

// List returns every app user.
func (s *AppUserService) List(ctx context.Context) ([]model.AppUser, error) {
	return s.appUsers.List(ctx)
}

// GetByID retrieves one app user.
func (s *AppUserService) GetByID(ctx context.Context, id int) (*model.AppUser, error) {
	return s.appUsers.GetByID(ctx, id)
}

// Create adds an account on an operator's behalf. Status defaults to inactive.
func (s *AppUserService) Create(ctx context.Context, in RegisterInput) (*model.AppUser, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.StatusInactive
	}

	u := &model.AppUser{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Status:       status,
	}
	if err := s.appUsers.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info().Int("app_user_id", u.ID).Str("status", string(u.Status)).Msg("App user created by operator")
	return u, nil
}

// Update changes an app user's profile fields and returns the stored record.
func (s *AppUserService) Update(ctx context.Context, id int, name, email string) (*model.AppUser, error) {
	u := &model.AppUser{
		ID:    id,
		Name:  strings.TrimSpace(name),
		Email: normalizeEmail(email),
	}
	if err := s.appUsers.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.appUsers.GetByID(ctx, id)
}

// SetStatus activates or deactivates an app user. Tokens issued before a
// deactivation stay valid until they expire.
func (s *AppUserService) SetStatus(ctx context.Context, id int, status model.AccountStatus) error {
	if err := s.appUsers.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.log.Info().Int("app_user_id", id).Str("status", string(status)).Msg("App user status changed")
	return nil
}

// Delete removes an app user.
func (s *AppUserService) Delete(ctx context.Context, id int) error {
	return s.appUsers.Delete(ctx, id)
}

package service

import (
	"context"
	"strings"

	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/rs/zerolog"
)

// AppUserStore is the persistence the admin domain needs.
type AppUserStore interface {
	GetByID(ctx context.Context, id int) (*model.AppUser, error)
	GetByEmail(ctx context.Context, email string) (*model.AppUser, error)
	List(ctx context.Context) ([]model.AppUser, error)
	Create(ctx context.Context, u *model.AppUser) error
	Update(ctx context.Context, u *model.AppUser) error
	UpdateStatus(ctx context.Context, id int, status model.AccountStatus) error
	Delete(ctx context.Context, id int) error
}

// StudentStore is the persistence the student domain needs.
type StudentStore interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	Create(ctx context.Context, s *model.Student) error
}

// RegisterInput carries the sign-up fields for either domain.
// Branch is only used by students, Status only by operator-created app users.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Branch   string
	Status   model.AccountStatus
}

// AuthResult is returned by a successful Authenticate.
type AuthResult struct {
	Token   string
	Account model.AccountInfo
}

// AccountService verifies logins and registers accounts in the two independent domains.
type AccountService struct {
	auth     *AuthService
	appUsers AppUserStore
	students StudentStore
	log      zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(auth *AuthService, appUsers AppUserStore, students StudentStore, log zerolog.Logger) *AccountService {
	return &AccountService{
		auth:     auth,
		appUsers: appUsers,
		students: students,
		log:      log.With().Str("component", "account_service").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate checks an e-mail/password pair inside one domain and issues a token.
//
// Errors: repository.ErrNotFound for an unknown e-mail, ErrInvalidCredentials for a
// wrong password, ErrAccountInactive for an unapproved app user. The password is checked
// before the status so an inactive account never reports ErrInvalidCredentials for a correct password.
func (s *AccountService) Authenticate(ctx context.Context, domain TokenType, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	var info model.AccountInfo

	switch domain {
	case TokenTypeAdmin:
		u, err := s.appUsers.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if err := s.auth.CheckPassword(u.PasswordHash, password); err != nil {
			return nil, err
		}
		if !u.IsActive() {
			return nil, ErrAccountInactive
		}
		info = appUserInfo(u)
	case TokenTypeStudent:
		st, err := s.students.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if err := s.auth.CheckPassword(st.PasswordHash, password); err != nil {
			return nil, err
		}
		info = studentInfo(st)
	default:
		return nil, ErrUnknownDomain
	}

	token, err := s.auth.GenerateToken(domain, info)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("domain", string(domain)).
		Int("account_id", info.ID).
		Msg("Login succeeded")

	return &AuthResult{Token: token, Account: info}, nil
}

// Register creates an account in the given domain. App users always start inactive
// through this path; students can log in immediately.
func (s *AccountService) Register(ctx context.Context, domain TokenType, in RegisterInput) (*model.AccountInfo, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var info model.AccountInfo
	switch domain {
	case TokenTypeAdmin:
		u := &model.AppUser{
			Name:         strings.TrimSpace(in.Name),
			Email:        email,
			PasswordHash: hash,
			Status:       model.StatusInactive,
		}
		if err := s.appUsers.Create(ctx, u); err != nil {
			return nil, err
		}
		info = appUserInfo(u)
	case TokenTypeStudent:
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		st := &model.Student{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Branch:       strings.TrimSpace(in.Branch),
		}
		if err := s.students.Create(ctx, st); err != nil {
			return nil, err
		}
		info = studentInfo(st)
	default:
		return nil, ErrUnknownDomain
	}

	s.log.Info().
		Str("domain", string(domain)).
		Int("account_id", info.ID).
		Msg("Account registered")

	return &info, nil
}

// Profile loads the current snapshot of the account a token was issued for.
func (s *AccountService) Profile(ctx context.Context, claims *Claims) (*model.AccountInfo, error) {
	if claims == nil {
		return nil, ErrInvalidToken
	}

	switch claims.TokenType {
	case TokenTypeAdmin:
		u, err := s.appUsers.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		info := appUserInfo(u)
		return &info, nil
	case TokenTypeStudent:
		st, err := s.students.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		info := studentInfo(st)
		return &info, nil
	}
	return nil, ErrUnknownDomain
}

func appUserInfo(u *model.AppUser) model.AccountInfo {
	return model.AccountInfo{ID: u.ID, Name: u.Name, Email: u.Email, Status: u.Status}
}

func studentInfo(s *model.Student) model.AccountInfo {
	return model.AccountInfo{ID: s.ID, Name: s.Name, Email: s.Email, Branch: s.Branch}
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/articlehub/articlehub-backend/internal/repository"
	"github.com/articlehub/articlehub-backend/internal/service"
	"github.com/articlehub/articlehub-backend/internal/service/servicetest"
)

func newTestAccountService() (*service.AccountService, *servicetest.AppUsers, *servicetest.Students) {
	appUsers := servicetest.NewAppUsers()
	students := &servicetest.Students{}
	return service.NewAccountService(service.NewAuthService(testConfig()), appUsers, students, testLog), appUsers, students
}

func TestAdminSignupStartsInactive(t *testing.T) {
	ctx := context.Background()
	svc, appUsers, _ := newTestAccountService()

	info, err := svc.Register(ctx, service.TokenTypeAdmin, service.RegisterInput{Name: "Ann", Email: "Ann@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if info.Status != model.StatusInactive {
		t.Errorf("expected inactive status, got %q", info.Status)
	}

	stored, _ := appUsers.GetByID(ctx, info.ID)
	if stored.Email != "ann@example.com" {
		t.Errorf("expected normalized email, got %q", stored.Email)
	}
	if stored.PasswordHash == "secret1" {
		t.Error("password must be stored hashed")
	}
}

func TestInactiveAdminWithCorrectPasswordIsAccountInactive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAccountService()

	if _, err := svc.Register(ctx, service.TokenTypeAdmin, service.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Authenticate(ctx, service.TokenTypeAdmin, "ann@example.com", "secret1")
	if !errors.Is(err, service.ErrAccountInactive) {
		t.Fatalf("expected service.ErrAccountInactive, got %v", err)
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatal("inactive account must never report invalid credentials for the right password")
	}
}

func TestActiveAdminLogin(t *testing.T) {
	ctx := context.Background()
	svc, appUsers, _ := newTestAccountService()

	info, _ := svc.Register(ctx, service.TokenTypeAdmin, service.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	if err := appUsers.UpdateStatus(ctx, info.ID, model.StatusActive); err != nil {
		t.Fatalf("activate: %v", err)
	}

	res, err := svc.Authenticate(ctx, service.TokenTypeAdmin, " ANN@example.com ", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if res.Token == "" || res.Account.Name != "Ann" || res.Account.Status != model.StatusActive {
		t.Errorf("unexpected result: %+v", res)
	}

	claims, err := service.NewAuthService(testConfig()).ValidateToken(res.Token)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if claims.TokenType != service.TokenTypeAdmin || claims.UserID != info.ID {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAccountService()

	if _, err := svc.Register(ctx, service.TokenTypeStudent, service.RegisterInput{Email: "stu@example.com", Password: "secret1", Branch: "CS"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, service.TokenTypeStudent, "nobody@example.com", "secret1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown email, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, service.TokenTypeStudent, "stu@example.com", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected service.ErrInvalidCredentials, got %v", err)
	}
	// The student exists, but not in the admin domain.
	if _, err := svc.Authenticate(ctx, service.TokenTypeAdmin, "stu@example.com", "secret1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound across domains, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "editor", "stu@example.com", "secret1"); !errors.Is(err, service.ErrUnknownDomain) {
		t.Errorf("expected service.ErrUnknownDomain, got %v", err)
	}
}

func TestStudentCanLoginRightAfterSignup(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAccountService()

	info, err := svc.Register(ctx, service.TokenTypeStudent, service.RegisterInput{Email: "bob@example.com", Password: "secret1", Branch: "Mechanical"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if info.Name != "bob" {
		t.Errorf("expected name to default to the email local part, got %q", info.Name)
	}

	res, err := svc.Authenticate(ctx, service.TokenTypeStudent, "bob@example.com", "secret1")
	if err != nil {
		t.Fatalf("expected immediate login, got %v", err)
	}
	if res.Account.Branch != "Mechanical" {
		t.Errorf("expected branch in snapshot, got %+v", res.Account)
	}
}

func TestDuplicateEmailIsPerDomain(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAccountService()
	in := service.RegisterInput{Name: "Sam", Email: "sam@example.com", Password: "secret1", Branch: "CS"}

	if _, err := svc.Register(ctx, service.TokenTypeAdmin, in); err != nil {
		t.Fatalf("admin register: %v", err)
	}
	if _, err := svc.Register(ctx, service.TokenTypeStudent, in); err != nil {
		t.Fatalf("same email in student domain must succeed: %v", err)
	}

	if _, err := svc.Register(ctx, service.TokenTypeAdmin, in); !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail for admin, got %v", err)
	}
	in.Email = "SAM@example.com"
	if _, err := svc.Register(ctx, service.TokenTypeStudent, in); !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail for student, got %v", err)
	}
}

func TestRegisterRequiresCredentials(t *testing.T) {
	svc, _, _ := newTestAccountService()

	if _, err := svc.Register(context.Background(), service.TokenTypeStudent, service.RegisterInput{Email: "  "}); !errors.Is(err, service.ErrMissingCredentials) {
		t.Errorf("expected service.ErrMissingCredentials, got %v", err)
	}
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAccountService()

	info, _ := svc.Register(ctx, service.TokenTypeStudent, service.RegisterInput{Name: "Cleo", Email: "cleo@example.com", Password: "secret1", Branch: "EE"})

	got, err := svc.Profile(ctx, &service.Claims{TokenType: service.TokenTypeStudent, UserID: info.ID})
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if got.Name != "Cleo" || got.Branch != "EE" {
		t.Errorf("unexpected profile %+v", got)
	}

	if _, err := svc.Profile(ctx, &service.Claims{TokenType: service.TokenTypeAdmin, UserID: info.ID}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for admin lookup, got %v", err)
	}
	if _, err := svc.Profile(ctx, nil); !errors.Is(err, service.ErrInvalidToken) {
		t.Errorf("expected service.ErrInvalidToken for nil claims, got %v", err)
	}
}

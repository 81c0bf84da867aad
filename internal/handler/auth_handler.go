package handler

import (
	"net/http"

	"github.com/articlehub/articlehub-backend/internal/middleware"
	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/articlehub/articlehub-backend/internal/response"
	"github.com/articlehub/articlehub-backend/internal/service"
	"github.com/articlehub/articlehub-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles sign-up, login and profile endpoints for both account domains.
type AuthHandler struct {
	accounts *service.AccountService
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		log:      log.With().Str("component", "auth_handler").Logger(),
	}
}

// AppUserSignup godoc
// POST /appuser/signup
// Registers an admin-domain account. The account stays inactive until an operator approves it.
func (h *AuthHandler) AppUserSignup(c *gin.Context) {
	var req model.AppUserSignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), service.TokenTypeAdmin, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": account})
}

// AppUserLogin godoc
// POST /appuser/login
// Validates email + password + active status, returns a bearer token.
func (h *AuthHandler) AppUserLogin(c *gin.Context) {
	h.login(c, service.TokenTypeAdmin, "user")
}

// StudentSignup godoc
// POST /student/signup
// Registers a student. The account can log in immediately.
func (h *AuthHandler) StudentSignup(c *gin.Context) {
	var req model.StudentSignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), service.TokenTypeStudent, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Branch:   req.Branch,
	})
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": account})
}

// StudentLogin godoc
// POST /student/login
// Validates email + password, returns {token, student}.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	h.login(c, service.TokenTypeStudent, "student")
}

func (h *AuthHandler) login(c *gin.Context, domain service.TokenType, accountKey string) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.accounts.Authenticate(c.Request.Context(), domain, req.Email, req.Password)
	if err != nil {
		h.log.Info().Err(err).Str("domain", string(domain)).Msg("Login rejected")
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":    result.Token,
		accountKey: result.Account,
	})
}

// Me godoc
// GET /appuser/me, GET /student/me
// Returns the profile behind the presented token.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	account, err := h.accounts.Profile(c.Request.Context(), claims)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"account": account})
}

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

// AppUserHandler serves the operator endpoints over admin-domain accounts.
type AppUserHandler struct {
	service *service.AppUserService
	log     zerolog.Logger
}

func NewAppUserHandler(service *service.AppUserService, log zerolog.Logger) *AppUserHandler {
	return &AppUserHandler{
		service: service,
		log:     log.With().Str("component", "app_user_handler").Logger(),
	}
}

// List handles GET /appuser/getAllAppuser.
func (h *AppUserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// Get handles GET /appuser/getAppuser/:id.
func (h *AppUserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Create handles POST /appuser/addnewAppuser.
func (h *AppUserHandler) Create(c *gin.Context) {
	var req model.CreateAppUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	// An empty status falls back to inactive in the service.
	status, _ := model.ParseAccountStatus(req.Status)

	user, err := h.service.Create(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Status:   status,
	})
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	h.log.Info().Int("user_id", user.ID).Int("by", operatorID(c)).Msg("App user created")
	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

// Update handles POST /appuser/updateUser.
func (h *AppUserHandler) Update(c *gin.Context) {
	var req model.UpdateAppUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.service.Update(c.Request.Context(), req.ID, req.Name, req.Email)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// UpdateStatus handles POST /appuser/updateUserStatus.
func (h *AppUserHandler) UpdateStatus(c *gin.Context) {
	var req model.UpdateAppUserStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	status, _ := model.ParseAccountStatus(req.Status)
	if err := h.service.SetStatus(c.Request.Context(), req.ID, status); err != nil {
		failWithError(c, h.log, err)
		return
	}

	h.log.Info().Int("user_id", req.ID).Str("status", string(status)).Int("by", operatorID(c)).Msg("App user status changed")
	response.Success(c, http.StatusOK, gin.H{"id": req.ID, "status": status})
}

// Delete handles DELETE /appuser/deleteUser/:id.
func (h *AppUserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		failWithError(c, h.log, err)
		return
	}

	h.log.Info().Int("user_id", id).Int("by", operatorID(c)).Msg("App user deleted")
	response.Success(c, http.StatusOK, gin.H{"id": id})
}

func operatorID(c *gin.Context) int {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

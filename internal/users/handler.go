package users

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// Handler manages user management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	rbac      rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbacMW rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New(), rbac: rbacMW}
}

// MountRoutes registers user routes. Callers must have authenticated the
// request already; permission guards are applied per route group.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/me", h.getSelf)
	r.Put("/me", h.updateSelf)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll("user:read"))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll("user:create"))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll("user:update"))
		r.Put("/{id}", h.update)
		r.Put("/{id}/roles", h.assignRoles)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll("user:delete"))
		r.Delete("/{id}", h.remove)
	})
}

// PermissionResponse is the wire shape of a permission nested under a role.
type PermissionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// RoleResponse is the wire shape of a role assigned to a user.
type RoleResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Code        string               `json:"code"`
	Description string               `json:"description,omitempty"`
	Permissions []PermissionResponse `json:"permissions"`
}

// Response is the wire shape of a user.
type Response struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	FullName    string         `json:"full_name,omitempty"`
	IsActive    bool           `json:"is_active"`
	IsSuperuser bool           `json:"is_superuser"`
	Roles       []RoleResponse `json:"roles"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ToResponse converts a domain user to its wire shape.
func ToResponse(u *User) Response {
	roles := make([]RoleResponse, 0, len(u.Roles))
	for _, role := range u.Roles {
		perms := make([]PermissionResponse, 0, len(role.Permissions))
		for _, p := range role.Permissions {
			perms = append(perms, PermissionResponse{ID: p.ID, Name: p.Name, Code: p.Code, Description: p.Description})
		}
		roles = append(roles, RoleResponse{
			ID: role.ID, Name: role.Name, Code: role.Code, Description: role.Description,
			Permissions: perms,
		})
	}
	return Response{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		Roles:       roles,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type listResponse struct {
	Items      []Response        `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

type createRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	FullName    string   `json:"full_name"`
	IsActive    *bool    `json:"is_active"`
	IsSuperuser bool     `json:"is_superuser"`
	RoleIDs     []string `json:"role_ids"`
}

type updateRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	IsActive *bool   `json:"is_active"`
}

type updateSelfRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

type assignRolesRequest struct {
	RoleIDs []string `json:"role_ids" validate:"required"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, pageSize := shared.ParsePageParams(r.URL.Query())
	var isActive *bool
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "is_active must be a boolean")
			return
		}
		isActive = &parsed
	}
	result, pagination, err := h.service.List(r.Context(), r.URL.Query().Get("search"), isActive, page, pageSize)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	items := make([]Response, 0, len(result))
	for i := range result {
		items = append(items, ToResponse(&result[i]))
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Pagination: pagination})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	user, err := h.service.Create(r.Context(), CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		IsActive:    active,
		IsSuperuser: req.IsSuperuser,
		RoleIDs:     req.RoleIDs,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ToResponse(user))
}

func (h *Handler) getSelf(w http.ResponseWriter, r *http.Request) {
	current := rbac.PrincipalFromContext(r.Context())
	if current == nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	user, err := h.service.Get(r.Context(), current.GetID())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(user))
}

func (h *Handler) updateSelf(w http.ResponseWriter, r *http.Request) {
	current := rbac.PrincipalFromContext(r.Context())
	if current == nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	var req updateSelfRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	// Self-update can never touch the active or superuser flags.
	user, err := h.service.Update(r.Context(), current.GetID(), UpdateUserInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(user))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(user))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateUserInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		IsActive: req.IsActive,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(user))
}

func (h *Handler) assignRoles(w http.ResponseWriter, r *http.Request) {
	var req assignRolesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	user, err := h.service.AssignRoles(r.Context(), chi.URLParam(r, "id"), req.RoleIDs)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(user))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

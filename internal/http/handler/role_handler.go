package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ai-samples-api/internal/http/request"
	"ai-samples-api/internal/http/response"
	"ai-samples-api/internal/observability"
	"ai-samples-api/internal/security"
	"ai-samples-api/internal/service"
)

type RoleHandler struct {
	roleSvc service.RoleServiceInterface
}

func NewRoleHandler(roleSvc service.RoleServiceInterface) *RoleHandler {
	return &RoleHandler{roleSvc: roleSvc}
}

// List returns every role in a single-page envelope.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	res := h.roleSvc.GetAllRoles()
	if !res.IsSuccess() {
		response.Problem(w, r, res.Code(), res.ErrorMessage())
		return
	}
	roles := res.Data()
	response.Success(w, r, http.StatusOK, PageEnvelope{
		Items:      roles,
		Page:       1,
		PageSize:   len(roles),
		TotalCount: int64(len(roles)),
		TotalPages: 1,
	}, "")
}

func (h *RoleHandler) GetUserRoles(w http.ResponseWriter, r *http.Request) {
	res := h.roleSvc.GetUserRoles(chi.URLParam(r, "userId"))
	if !res.IsSuccess() {
		response.Problem(w, r, res.Code(), res.ErrorMessage())
		return
	}
	response.Success(w, r, http.StatusOK, res.Data(), "")
}

func (h *RoleHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req request.AssignRoleRequest
	if err := request.Decode(r, &req); err != nil {
		response.Problem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if errs := request.Validate(req); errs != nil {
		response.ValidationProblem(w, r, errs)
		return
	}

	userID := chi.URLParam(r, "userId")
	var assignedBy *string
	if claims, ok := security.ClaimsFromContext(r.Context()); ok && claims.Subject != "" {
		subject := claims.Subject
		assignedBy = &subject
	}

	res := h.roleSvc.AssignRoleToUser(userID, req.RoleID, assignedBy)
	if !res.IsSuccess() {
		observability.RecordRoleAssignment(r.Context(), "assign", "failure")
		response.Problem(w, r, res.Code(), res.ErrorMessage())
		return
	}
	observability.Audit(r, "roles.assigned", "user_id", userID, "role_id", req.RoleID)
	observability.RecordRoleAssignment(r.Context(), "assign", "success")
	response.Success(w, r, http.StatusCreated, true, "role assigned")
}

func (h *RoleHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	roleID := chi.URLParam(r, "roleId")

	res := h.roleSvc.RemoveRoleFromUser(userID, roleID)
	if !res.IsSuccess() {
		observability.RecordRoleAssignment(r.Context(), "remove", "failure")
		response.Problem(w, r, res.Code(), res.ErrorMessage())
		return
	}
	observability.Audit(r, "roles.removed", "user_id", userID, "role_id", roleID)
	observability.RecordRoleAssignment(r.Context(), "remove", "success")
	w.WriteHeader(http.StatusNoContent)
}

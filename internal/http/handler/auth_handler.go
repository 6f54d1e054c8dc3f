package handler

import (
	"net/http"
	"time"

	"ai-samples-api/internal/domain"
	"ai-samples-api/internal/http/request"
	"ai-samples-api/internal/http/response"
	"ai-samples-api/internal/observability"
	"ai-samples-api/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
	roleSvc service.RoleServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface, roleSvc service.RoleServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, roleSvc: roleSvc}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "login", status, time.Since(start))
	}()

	var req request.LoginRequest
	if err := request.Decode(r, &req); err != nil {
		status = "failure"
		response.Problem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if errs := request.Validate(req); errs != nil {
		status = "failure"
		response.ValidationProblem(w, r, errs)
		return
	}

	res := h.authSvc.Authenticate(req.Email, req.Password)
	if !res.IsSuccess() {
		status = "failure"
		observability.Audit(r, "auth.login.failed", "email", req.Email)
		observability.RecordAuthLogin(r.Context(), "failure")
		response.Problem(w, r, res.Code(), res.ErrorMessage())
		return
	}
	observability.Audit(r, "auth.login.success", "user_id", res.Data().User.ID)
	observability.RecordAuthLogin(r.Context(), "success")
	response.Success(w, r, http.StatusOK, res.Data(), "login successful")
}

// Me returns the caller's identity projection: id, email and assigned roles.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	res := h.authSvc.CurrentUser(r.Context())
	if !res.IsSuccess() {
		response.Problem(w, r, res.Code(), res.ErrorMessage())
		return
	}
	user := res.Data()

	rolesRes := h.roleSvc.GetUserRoles(user.ID)
	if !rolesRes.IsSuccess() {
		response.Problem(w, r, rolesRes.Code(), rolesRes.ErrorMessage())
		return
	}
	roles := rolesRes.Data()
	if roles == nil {
		roles = []domain.Role{}
	}
	response.Success(w, r, http.StatusOK, service.UserInfo{ID: user.ID, Email: user.Email, Roles: roles}, "")
}

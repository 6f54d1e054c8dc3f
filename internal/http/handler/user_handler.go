package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ai-samples-api/internal/http/request"
	"ai-samples-api/internal/http/response"
	"ai-samples-api/internal/observability"
	"ai-samples-api/internal/repository"
	"ai-samples-api/internal/service"
)

type PageEnvelope struct {
	Items      any   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

type UserHandler struct {
	userSvc service.UserServiceInterface
}

func NewUserHandler(userSvc service.UserServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List serves the paginated, filtered user listing. Out-of-range paging
// values are normalized rather than rejected.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordListRequestDuration(r.Context(), status, time.Since(start))
	}()

	q := repository.UserListQuery{
		PageRequest: repository.PageRequest{
			Page:     queryInt(r, "page", repository.DefaultPage),
			PageSize: queryInt(r, "pageSize", repository.DefaultPageSize),
		},
		Search: r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			status = "failure"
			response.Problem(w, r, http.StatusBadRequest, "isActive must be a boolean")
			return
		}
		q.IsActive = active
		q.FilterByActive = true
	}

	res := h.userSvc.List(q)
	if !res.IsSuccess() {
		status = "failure"
		response.Problem(w, r, res.Code(), res.ErrorMessage())
		return
	}
	page := res.Data()
	observability.RecordListPageSize(r.Context(), page.PageSize)
	response.Success(w, r, http.StatusOK, PageEnvelope{
		Items:      page.Items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.Total,
		TotalPages: page.TotalPages,
	}, "")
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	res := h.userSvc.GetByID(chi.URLParam(r, "id"))
	if !res.IsSuccess() {
		response.Problem(w, r, res.Code(), res.ErrorMessage())
		return
	}
	response.Success(w, r, http.StatusOK, res.Data(), "")
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if err := request.Decode(r, &req); err != nil {
		response.Problem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if errs := request.Validate(req); errs != nil {
		response.ValidationProblem(w, r, errs)
		return
	}

	res := h.userSvc.Create(service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IsActive: req.Active(),
	})
	if !res.IsSuccess() {
		observability.RecordUserMutation(r.Context(), "create", "failure")
		response.Problem(w, r, res.Code(), res.ErrorMessage())
		return
	}
	observability.Audit(r, "users.created", "user_id", res.Data().ID, "username", res.Data().Username)
	observability.RecordUserMutation(r.Context(), "create", "success")
	response.Success(w, r, http.StatusCreated, res.Data(), "user created")
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUserRequest
	if err := request.Decode(r, &req); err != nil {
		response.Problem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := h.userSvc.Update(chi.URLParam(r, "id"), service.UpdateUserInput{IsActive: req.IsActive})
	if !res.IsSuccess() {
		observability.RecordUserMutation(r.Context(), "update", "failure")
		response.Problem(w, r, res.Code(), res.ErrorMessage())
		return
	}
	observability.Audit(r, "users.updated", "user_id", res.Data().ID, "is_active", res.Data().IsActive)
	observability.RecordUserMutation(r.Context(), "update", "success")
	response.Success(w, r, http.StatusOK, res.Data(), "user updated")
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res := h.userSvc.Delete(id)
	if !res.IsSuccess() {
		observability.RecordUserMutation(r.Context(), "delete", "failure")
		response.Problem(w, r, res.Code(), res.ErrorMessage())
		return
	}
	observability.Audit(r, "users.deactivated", "user_id", id)
	observability.RecordUserMutation(r.Context(), "delete", "success")
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

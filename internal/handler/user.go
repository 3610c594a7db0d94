package handler

import (
	"encoding/json"
	"net/http"

	"blognest/internal/config"
	"blognest/internal/httputil"
	"blognest/internal/model"
	"blognest/internal/service"
)

// UserHandler serves local signup and login.
type UserHandler struct {
	userService  *service.UserService
	tokenService *service.TokenService
	cfg          *config.Config
	errs         *httputil.Classifier
}

func NewUserHandler(userService *service.UserService, tokenService *service.TokenService, cfg *config.Config, errs *httputil.Classifier) *UserHandler {
	return &UserHandler{
		userService:  userService,
		tokenService: tokenService,
		cfg:          cfg,
		errs:         errs,
	}
}

// Signup handles POST /user/.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Signup(r.Context(), &req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "user created successfully", httputil.M{
		"user": user,
	})
}

// Login handles POST /user/login. On success the bearer token is set as an
// HTTP-only cookie, so browser clients never touch it directly.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	token, err := h.tokenService.Issue(user)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	setAuthCookie(w, h.cfg, token)
	httputil.WriteSuccess(w, http.StatusOK, "login successful", httputil.M{
		"user": user,
	})
}

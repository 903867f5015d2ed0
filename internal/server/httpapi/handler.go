package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/kids-learning/auth-service/internal/logging"
	"github.com/kids-learning/auth-service/internal/server/models"
	"github.com/kids-learning/auth-service/internal/server/services"
)

// Handler maps HTTP requests to AuthService calls.
type Handler struct {
	auth   *services.AuthService
	logger logging.Logger
}

func NewHandler(auth *services.AuthService, logger logging.Logger) *Handler {
	return &Handler{auth: auth, logger: logger.With("module", "httpapi")}
}

type registerGuardianRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type registerDependentRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	GuardianID string `json:"guardianId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type authResponse struct {
	AccessToken string             `json:"accessToken"`
	Account     models.AccountView `json:"account"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
	}
	writeFail(w, status, message)
}

// RegisterGuardian handles POST /auth/register-guardian.
func (h *Handler) RegisterGuardian(w http.ResponseWriter, r *http.Request) {
	var req registerGuardianRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeFail(w, http.StatusBadRequest, "email, password and name are required")
		return
	}

	res, err := h.auth.RegisterGuardian(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated,
		authResponse{AccessToken: res.AccessToken, Account: res.Account},
		"guardian registered")
}

// RegisterDependent handles POST /auth/register-dependent.
func (h *Handler) RegisterDependent(w http.ResponseWriter, r *http.Request) {
	var req registerDependentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" || req.GuardianID == "" {
		writeFail(w, http.StatusBadRequest, "email, password, name and guardianId are required")
		return
	}

	res, err := h.auth.RegisterDependent(r.Context(), req.Email, req.Password, req.Name, req.GuardianID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated,
		authResponse{AccessToken: res.AccessToken, Account: res.Account},
		"dependent registered")
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeFail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var roleHint *models.Role
	if req.Role != "" {
		role, err := models.ParseRole(req.Role)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "invalid role")
			return
		}
		roleHint = &role
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password, roleHint)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK,
		authResponse{AccessToken: res.AccessToken, Account: res.Account},
		"login successful")
}

// Me handles GET /auth/me and returns the live account behind the
// presented token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, r, errMissingIdentity)
		return
	}

	view, err := h.auth.ValidateByID(r.Context(), claims.Subject)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, view, "")
}

// Dependents handles GET /auth/dependents, listing the caller's
// sponsored accounts. The route is guarded to guardians.
func (h *Handler) Dependents(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, r, errMissingIdentity)
		return
	}

	list, err := h.auth.Dependents(r.Context(), claims.Subject)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, list, "")
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "auth-service",
	}, "")
}

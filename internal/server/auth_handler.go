package server

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/logging"
	"github.com/jonathan/portfolio/internal/types"
)

// AuthHandler handles the mock admin login. There is a single account whose bcrypt
// hash comes from configuration.
type AuthHandler struct {
	admin     config.AdminConfig
	passwords *config.PasswordConfig
	jwt       *JWTService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(admin config.AdminConfig, passwords *config.PasswordConfig, jwt *JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		admin:     admin,
		passwords: passwords,
		jwt:       jwt,
		validator: newValidator(),
		logger:    logging.OrNop(logger),
	}
}

// Enabled reports whether logins can succeed.
func (h *AuthHandler) Enabled() bool {
	return h.admin.Enabled() && h.passwords != nil && h.jwt != nil
}

// Login exchanges the admin credentials for a token and its expiry.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.Enabled() {
		writeError(w, h.logger, &ErrAuthDisabled{})
		return
	}

	var req types.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, h.logger, validationError(err))
		return
	}

	if err := h.authenticate(req.Username, req.Password); err != nil {
		h.logger.Info("admin login rejected", zap.String("username", req.Username))
		writeError(w, h.logger, err)
		return
	}

	token, expiry, err := h.jwt.GenerateToken(h.admin.Username)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, types.OK(types.LoginResponse{Token: token, Expiry: expiry}))
}

func (h *AuthHandler) authenticate(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.admin.Username)) == 1
	// The hash is always checked, even for an unknown user.
	passErr := h.passwords.VerifyPassword(password, h.admin.PasswordHash)
	if !userOK || passErr != nil {
		if passErr != nil && !errors.Is(passErr, config.ErrPasswordMismatch) {
			h.logger.Warn("admin password hash could not be checked", zap.Error(passErr))
		}
		return &ErrInvalidCredentials{}
	}
	return nil
}

// validationError converts validator output into the first failing field.
func validationError(err error) *ErrValidation {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fe.Tag()}
	}
	return &ErrValidation{Message: "invalid request"}
}

// internal/server/auth_handlers.go
package server

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"

	"financeflow/internal/common/errors"
	"financeflow/internal/models"
)

func (a *App) handleRegister(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeJSON(r, &user); err != nil {
		respondError(w, err)
		return
	}
	if err := a.validate.Struct(user); err != nil {
		respondError(w, errors.NewValidationFailedError(a.validationMessage(err)))
		return
	}

	// Self-registration never grants elevated roles.
	user.Role = models.RoleUser
	if err := a.users.Create(r.Context(), &user); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var login models.UserLogin
	if err := decodeJSON(r, &login); err != nil {
		respondError(w, err)
		return
	}
	if err := a.validate.Struct(login); err != nil {
		respondError(w, errors.NewValidationFailedError(a.validationMessage(err)))
		return
	}

	user, err := a.users.Authenticate(r.Context(), login)
	if err != nil {
		respondError(w, err)
		return
	}

	if a.cfg.Auth.OTP.Enabled && a.otp != nil {
		if err := a.otp.Challenge(r.Context(), user.Username, user.Phone); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"otpRequired": true,
			"message":     "verification code sent",
		})
		return
	}

	a.issueSession(w, r, user)
}

func (a *App) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	if a.otp == nil {
		respondError(w, errors.NewAuthenticationError("otp verification not enabled"))
		return
	}

	var verification models.OTPVerification
	if err := decodeJSON(r, &verification); err != nil {
		respondError(w, err)
		return
	}
	if err := a.validate.Struct(verification); err != nil {
		respondError(w, errors.NewValidationFailedError(a.validationMessage(err)))
		return
	}

	if err := a.otp.Verify(r.Context(), verification.Username, verification.Code); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.users.GetByUsername(r.Context(), verification.Username)
	if err != nil {
		respondError(w, err)
		return
	}
	a.issueSession(w, r, user)
}

func (a *App) issueSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	ttl := time.Duration(a.cfg.Auth.TokenTTLMinutes) * time.Minute
	claims := &models.UserToken{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.cfg.Auth.JWTSecret))
	if err != nil {
		respondError(w, errors.NewAuthenticationError("session issuance failed"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.Auth.CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	a.logger.Info("session issued", map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"userId":   user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

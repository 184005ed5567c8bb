// internal/server/application_handlers.go
package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/metrics"
	"financeflow/internal/models"
	"financeflow/internal/repository"
	"financeflow/internal/search"
)

const maxSubmissionBytes = 10 << 20 // JSON part plus the identity document

func (a *App) handleLoanTypes(w http.ResponseWriter, r *http.Request) {
	types, err := a.loanTypes.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, types)
}

func (a *App) handleListApplications(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		respondError(w, errors.NewAuthenticationError("missing session"))
		return
	}

	apps, err := a.applications.ListByOwner(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, apps)
}

func (a *App) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		respondError(w, errors.NewAuthenticationError("missing session"))
		return
	}

	app, err := a.applications.GetByOwner(r.Context(), claims.UserID, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, app)
}

// handleSubmitApplication accepts the wizard's multipart submission: a JSON
// part named "application" and the identity document part named "document".
func (a *App) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		respondError(w, errors.NewAuthenticationError("missing session"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		respondError(w, errors.NewValidationFailedError("malformed multipart submission"))
		return
	}

	raw := r.FormValue("application")
	if raw == "" {
		respondError(w, errors.NewValidationFailedError("missing application part"))
		return
	}
	var payload models.ApplicationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		respondError(w, errors.NewValidationFailedError("malformed application part"))
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		respondError(w, errors.NewDocumentRequiredError())
		return
	}
	defer file.Close()
	if _, err := io.Copy(io.Discard, file); err != nil {
		respondError(w, errors.NewValidationFailedError("unreadable document part"))
		return
	}

	if err := a.checkPayload(payload); err != nil {
		metrics.ApplicationsRejected.WithLabelValues(errors.GetErrorCategory(errors.Normalize(err).Code)).Inc()
		respondError(w, err)
		return
	}

	loanType, err := a.loanTypes.GetByName(r.Context(), payload.LoanDetails.LoanTypeName)
	if err != nil {
		metrics.ApplicationsRejected.WithLabelValues(errors.GetErrorCategory(errors.Normalize(err).Code)).Inc()
		respondError(w, err)
		return
	}
	if !loanType.AllowsTenure(payload.LoanDetails.TenureMonths) {
		metrics.ApplicationsRejected.WithLabelValues(errors.GetErrorCategory(errors.ErrCodeValidationFailed)).Inc()
		respondError(w, errors.NewValidationFailedError(
			fmt.Sprintf("tenure of %d months is not offered for %s loans",
				payload.LoanDetails.TenureMonths, loanType.Name)))
		return
	}
	if payload.LoanDetails.DesiredAmount > loanType.MaxAmount {
		metrics.ApplicationsRejected.WithLabelValues(errors.GetErrorCategory(errors.ErrCodeValidationFailed)).Inc()
		respondError(w, errors.NewValidationFailedError(
			fmt.Sprintf("desired amount exceeds the %s loan maximum", loanType.Name)))
		return
	}

	loanID, err := a.loanIDs.Next(r.Context(), loanType.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	app := applicationFromPayload(claims.UserID, loanID, payload)
	app.LoanTypeID = loanType.ID
	app.DocumentKey = documentKey(header.Filename)

	if err := a.applications.Create(r.Context(), app); err != nil {
		respondError(w, err)
		return
	}

	metrics.ApplicationsSubmitted.WithLabelValues(app.LoanTypeName).Inc()
	if a.notifier != nil {
		a.notifier.ApplicationReceived(r.Context(), app)
	}
	if a.indexer != nil {
		a.indexer.IndexApplication(r.Context(), app)
	}

	a.logger.Info("application accepted", map[string]interface{}{
		"loanId":   app.LoanID,
		"loanType": app.LoanTypeName,
	})
	respondJSON(w, http.StatusCreated, models.SubmissionAck{
		Success:     true,
		Message:     "application received",
		Application: app,
	})
}

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// documentKey mints the stored document reference. The key is always a fresh
// uuid; the upload's extension is kept only when it is a plain short suffix,
// so client-supplied filenames can neither collide nor smuggle path segments.
func documentKey(filename string) string {
	key := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if extPattern.MatchString(ext) {
		key += ext
	}
	return key
}

// checkPayload enforces the figures the wizard guarantees, against clients
// that bypass it.
func (a *App) checkPayload(p models.ApplicationPayload) error {
	switch {
	case p.PersonalDetails.FirstName == "" || p.PersonalDetails.LastName == "":
		return errors.NewValidationFailedError("applicant name is required")
	case p.PersonalDetails.Email == "":
		return errors.NewValidationFailedError("email is required")
	case p.IdentityDetails.DocumentType == "" || p.IdentityDetails.DocumentNumber == "":
		return errors.NewValidationFailedError("identity document details are required")
	case p.LoanDetails.DesiredAmount < a.cfg.Loans.MinAmount:
		return errors.NewValidationFailedError(
			fmt.Sprintf("desired amount must be at least %.0f", a.cfg.Loans.MinAmount))
	case p.LoanDetails.MonthlyPayment <= 0 || p.LoanDetails.TotalInterest <= 0 || p.LoanDetails.TotalPayable <= 0:
		return errors.NewInvariantViolationError("loan figures must be strictly positive")
	case p.EmploymentInfo.MonthlyIncome <= 0:
		return errors.NewValidationFailedError("monthly income must be positive")
	}

	maxAffordable := p.EmploymentInfo.MonthlyIncome * float64(a.cfg.Loans.AffordabilityMultiple)
	if p.LoanDetails.DesiredAmount > maxAffordable {
		return errors.NewValidationFailedError("desired amount exceeds the affordability ceiling")
	}
	return nil
}

func applicationFromPayload(userID, loanID string, p models.ApplicationPayload) *models.LoanApplication {
	return &models.LoanApplication{
		UserID: userID,
		LoanID: loanID,

		FirstName:     p.PersonalDetails.FirstName,
		MiddleName:    p.PersonalDetails.MiddleName,
		LastName:      p.PersonalDetails.LastName,
		Email:         p.PersonalDetails.Email,
		Phone:         p.PersonalDetails.Phone,
		DateOfBirth:   p.PersonalDetails.DateOfBirth,
		MaritalStatus: p.PersonalDetails.MaritalStatus,

		DocumentType:   p.IdentityDetails.DocumentType,
		DocumentNumber: p.IdentityDetails.DocumentNumber,

		AddressLine1:      p.AddressDetails.AddressLine1,
		AddressLine2:      p.AddressDetails.AddressLine2,
		City:              p.AddressDetails.City,
		State:             p.AddressDetails.State,
		PostalCode:        p.AddressDetails.PostalCode,
		ResidentialStatus: p.AddressDetails.ResidentialStatus,
		MonthlyRent:       p.AddressDetails.MonthlyRent,

		EmploymentType: p.EmploymentInfo.EmploymentType,
		EmployerName:   p.EmploymentInfo.EmployerName,
		MonthlyIncome:  p.EmploymentInfo.MonthlyIncome,
		YearsEmployed:  p.EmploymentInfo.YearsEmployed,

		LoanTypeID:     p.LoanDetails.LoanTypeID,
		LoanTypeName:   p.LoanDetails.LoanTypeName,
		DesiredAmount:  p.LoanDetails.DesiredAmount,
		TenureMonths:   p.LoanDetails.TenureMonths,
		InterestRate:   p.LoanDetails.InterestRate,
		MonthlyPayment: p.LoanDetails.MonthlyPayment,
		TotalInterest:  p.LoanDetails.TotalInterest,
		TotalPayable:   p.LoanDetails.TotalPayable,
	}
}

func (a *App) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		respondError(w, errors.NewAuthenticationError("missing session"))
		return
	}

	var patch struct {
		Email        *string `json:"email"`
		Phone        *string `json:"phone"`
		AddressLine1 *string `json:"addressLine1"`
		AddressLine2 *string `json:"addressLine2"`
		City         *string `json:"city"`
		State        *string `json:"state"`
		PostalCode   *string `json:"postalCode"`
	}
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, err)
		return
	}

	id := mux.Vars(r)["id"]
	err := a.applications.UpdateByOwner(r.Context(), claims.UserID, id, repository.ApplicationPatch{
		Email:        patch.Email,
		Phone:        patch.Phone,
		AddressLine1: patch.AddressLine1,
		AddressLine2: patch.AddressLine2,
		City:         patch.City,
		State:        patch.State,
		PostalCode:   patch.PostalCode,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	app, err := a.applications.GetByOwner(r.Context(), claims.UserID, id)
	if err != nil {
		respondError(w, err)
		return
	}
	if a.indexer != nil {
		a.indexer.IndexApplication(r.Context(), app)
	}
	respondJSON(w, http.StatusOK, app)
}

func (a *App) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		respondError(w, errors.NewAuthenticationError("missing session"))
		return
	}

	if err := a.applications.DeleteByOwner(r.Context(), claims.UserID, mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, err)
		return
	}

	app, err := a.applications.UpdateStatus(r.Context(), mux.Vars(r)["id"], models.LoanStatus(body.Status))
	if err != nil {
		respondError(w, err)
		return
	}

	if a.notifier != nil {
		a.notifier.StatusChanged(r.Context(), app)
	}
	if a.indexer != nil {
		a.indexer.IndexApplication(r.Context(), app)
	}
	respondJSON(w, http.StatusOK, app)
}

func (a *App) handleSearchApplications(w http.ResponseWriter, r *http.Request) {
	if a.indexer == nil {
		respondError(w, errors.NewSearchQueryFailedError(fmt.Errorf("search backend not configured")))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	apps, err := a.indexer.SearchApplications(r.Context(), search.Query{
		Text:   r.URL.Query().Get("q"),
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
		Limit:  limit,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, apps)
}

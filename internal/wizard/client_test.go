// internal/wizard/client_test.go
package wizard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/logger"
	"financeflow/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, logger.NewNoOpLogger())
}

func submissionInputs(t *testing.T) (models.ApplicationPayload, *Document) {
	t.Helper()
	d := validDraft()
	payload, err := Assemble(d, economicsFor(d))
	require.NoError(t, err)
	return payload, d.Document
}

func TestClient_FetchLoanTypes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/loan-types", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"lt-personal","name":"Personal","interestRate":12.5,"maxAmount":1200000,"allowedTenures":[12,24,36]}]`))
	})

	types, err := client.FetchLoanTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Personal", types[0].Name)
}

func TestClient_SubmitApplication_MultipartShape(t *testing.T) {
	var gotPayload models.ApplicationPayload
	var gotFilename string
	var gotDocBytes []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("application")), &gotPayload))

		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotDocBytes, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.SubmissionAck{Success: true, Message: "received"})
	})

	payload, doc := submissionInputs(t)
	ack, err := client.SubmitApplication(context.Background(), payload, doc)
	require.NoError(t, err)
	assert.True(t, ack.Success)

	assert.Equal(t, "Asha", gotPayload.PersonalDetails.FirstName)
	assert.Equal(t, "pan-card.pdf", gotFilename)
	assert.Equal(t, doc.Data, gotDocBytes)
}

func TestClient_SubmitApplication_SurfacesServerRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{
			"error": "Application data validation failed",
			"code": "VALIDATION_FAILED",
			"details": "tenure of 13 months is not offered for Personal loans"
		}`))
	})

	payload, doc := submissionInputs(t)
	_, err := client.SubmitApplication(context.Background(), payload, doc)
	require.Error(t, err)

	stdErr := errors.Normalize(err)
	assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)
	assert.Contains(t, err.Error(), "tenure of 13 months",
		"the server's reason reaches the user for correction")
}

func TestClient_SubmitApplication_PreservesServerErrorCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Loan type is not recognized","code":"LOAN_TYPE_UNKNOWN","details":"Yacht"}`))
	})

	payload, doc := submissionInputs(t)
	_, err := client.SubmitApplication(context.Background(), payload, doc)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLoanTypeUnknown, errors.Normalize(err).Code)
}

func TestClient_SubmitApplication_UnparseableRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>upstream error</html>`))
	})

	payload, doc := submissionInputs(t)
	_, err := client.SubmitApplication(context.Background(), payload, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_SubmitApplication_MissingDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a document")
	})

	payload, _ := submissionInputs(t)
	_, err := client.SubmitApplication(context.Background(), payload, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDocumentRequired, errors.Normalize(err).Code)
}

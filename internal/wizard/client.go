// internal/wizard/client.go
package wizard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"time"

	"github.com/goccy/go-json"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/http"
	"financeflow/internal/common/logger"
	"financeflow/internal/models"
)

const defaultClientTimeout = 30 * time.Second

// Client talks to the application backend. Its SubmitApplication method
// satisfies SubmitFunc so it can be plugged straight into a Store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(baseURL string, log logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: http.NewClient(defaultClientTimeout),
		logger:     log.WithFields(map[string]interface{}{"component": "wizard-client"}),
	}
}

// FetchLoanTypes retrieves the loan type reference data. The wizard calls
// this once per session before the loan amount stage is reachable.
func (c *Client) FetchLoanTypes(ctx context.Context) ([]models.LoanType, error) {
	req, err := nethttp.NewRequest(nethttp.MethodGet, c.baseURL+"/api/loan-types", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("loan type fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, fmt.Errorf("loan type fetch returned status %d", resp.StatusCode)
	}

	var types []models.LoanType
	if err := json.NewDecoder(resp.Body).Decode(&types); err != nil {
		return nil, err
	}
	return types, nil
}

// SubmitApplication posts the assembled payload and the identity document as
// a multipart request: a JSON part named "application" and a binary part
// named "document".
func (c *Client) SubmitApplication(ctx context.Context, payload models.ApplicationPayload, doc *Document) (*models.SubmissionAck, error) {
	if doc == nil || len(doc.Data) == 0 {
		return nil, errors.NewDocumentRequiredError()
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	jsonPart, err := writer.CreateFormField("application")
	if err != nil {
		return nil, err
	}
	if err := json.NewEncoder(jsonPart).Encode(payload); err != nil {
		return nil, err
	}

	docPart, err := writer.CreateFormFile("document", doc.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := docPart.Write(doc.Data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := nethttp.NewRequest(nethttp.MethodPost, c.baseURL+"/api/loan-applications", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		c.logger.Error("submission request failed", map[string]interface{}{
			"error": err,
		})
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, rejectionError(resp.StatusCode, raw)
	}

	var ack models.SubmissionAck
	if err := json.Unmarshal(raw, &ack); err != nil {
		return nil, fmt.Errorf("unexpected submission response (status %d): %w", resp.StatusCode, err)
	}
	if !ack.Success {
		msg := ack.Message
		if msg == "" {
			msg = fmt.Sprintf("submission rejected with status %d", resp.StatusCode)
		}
		return nil, errors.NewValidationFailedError(msg)
	}

	return &ack, nil
}

// rejectionError reconstructs the server's error so the wizard can show the
// actual reason for correction and resubmission, not a generic failure.
func rejectionError(status int, raw []byte) error {
	var body struct {
		Error   string `json:"error"`
		Code    string `json:"code"`
		Details string `json:"details"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || (body.Error == "" && body.Message == "") {
		return errors.NewValidationFailedError(fmt.Sprintf("submission rejected with status %d", status))
	}

	message := body.Error
	if message == "" {
		message = body.Message
	}
	if body.Details != "" {
		if message == "" {
			message = body.Details
		} else {
			message = message + ": " + body.Details
		}
	}
	code := errors.ErrCodeValidationFailed
	if body.Code != "" {
		code = errors.ErrorCode(body.Code)
	}
	return &errors.StandardError{
		Code:      code,
		Message:   message,
		Details:   body.Details,
		Timestamp: time.Now().UTC(),
	}
}

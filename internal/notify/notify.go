// internal/notify/notify.go

// Package notify sends applicant-facing email. Delivery is best effort: a
// failed email is logged and never fails the operation that triggered it.
package notify

import (
	"context"
	"fmt"

	"financeflow/internal/common/logger"
	"financeflow/internal/models"
)

// Emailer is the delivery transport. aws.SESClient satisfies this.
type Emailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Notifier struct {
	emailer Emailer
	from    string
	logger  logger.Logger
}

func NewNotifier(emailer Emailer, from string, log logger.Logger) *Notifier {
	return &Notifier{
		emailer: emailer,
		from:    from,
		logger:  log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

// ApplicationReceived confirms a successful submission to the applicant.
func (n *Notifier) ApplicationReceived(ctx context.Context, app *models.LoanApplication) {
	subject := fmt.Sprintf("Loan application %s received", app.LoanID)
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your %s loan application has been received and assigned reference %s.\n"+
			"Requested amount: %.2f over %d months.\n"+
			"Estimated monthly payment: %.2f.\n\n"+
			"We will notify you when its status changes.\n",
		app.FirstName, app.LoanTypeName, app.LoanID,
		app.DesiredAmount, app.TenureMonths, app.MonthlyPayment,
	)
	n.send(ctx, app, subject, body)
}

// StatusChanged tells the applicant about a review decision.
func (n *Notifier) StatusChanged(ctx context.Context, app *models.LoanApplication) {
	subject := fmt.Sprintf("Loan application %s is now %s", app.LoanID, app.Status)
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"The status of your %s loan application %s has changed to: %s.\n",
		app.FirstName, app.LoanTypeName, app.LoanID, app.Status,
	)
	n.send(ctx, app, subject, body)
}

func (n *Notifier) send(ctx context.Context, app *models.LoanApplication, subject, body string) {
	if n.emailer == nil {
		return
	}
	if err := n.emailer.Send(ctx, n.from, app.Email, subject, body); err != nil {
		n.logger.Error("email delivery failed", map[string]interface{}{
			"loanId":  app.LoanID,
			"subject": subject,
			"error":   err,
		})
		return
	}
	n.logger.Debug("email sent", map[string]interface{}{
		"loanId":  app.LoanID,
		"subject": subject,
	})
}

// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_applications_submitted_total",
			Help: "Total number of loan applications accepted for persistence",
		},
		[]string{"loan_type"},
	)

	ApplicationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_applications_rejected_total",
			Help: "Total number of submissions rejected before persistence",
		},
		[]string{"reason"},
	)

	LoanIDsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_ids_issued_total",
			Help: "Total number of loan identifiers generated",
		},
		[]string{"prefix"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route", "method", "status"},
	)

	OTPChallengesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "otp_challenges_issued_total",
			Help: "Total number of OTP challenges issued",
		},
	)
)

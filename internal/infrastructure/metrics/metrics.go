package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the "result" label.
const (
	Request           = "request"
	SignupOK          = "signup_ok"
	VerifyOK          = "verify_ok"
	LoginOK           = "login_ok"
	LoginFailed       = "login_failed"
	UploadOK          = "upload_ok"
	UploadFailed      = "upload_failed"
	DeleteOK          = "delete_ok"
	LinkIssued        = "download_link_issued"
	RedeemOK          = "redeem_ok"
	RedeemUsed        = "redeem_invalid_or_used"
	RedeemExpired     = "redeem_expired"
	RedeemWrongOwner  = "redeem_wrong_owner"
	EventPublishError = "event_publish_error"
)

func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fileexchange",
			Name:      "general_counters",
		},
		[]string{"result"})
}

// NewUnregisteredCounter has the same shape as NewCounter but stays off the
// default registry, so tests can build many.
func NewUnregisteredCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fileexchange",
			Name:      "general_counters",
		},
		[]string{"result"})
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// DomainMetrics counts the business events operators care about. A nil
// *DomainMetrics is valid and records nothing.
type DomainMetrics struct {
	logins        *prometheus.CounterVec
	quotaRejected prometheus.Counter
	notifications *prometheus.CounterVec
}

func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	m := &DomainMetrics{
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenantnotes_login_attempts_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		quotaRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tenantnotes_note_quota_rejections_total",
				Help: "Note creations refused because the free plan limit was reached",
			},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenantnotes_notifications_total",
				Help: "Notification deliveries by event type and result",
			},
			[]string{"type", "result"},
		),
	}

	reg.MustRegister(m.logins, m.quotaRejected, m.notifications)
	return m
}

func (m *DomainMetrics) Login(success bool) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result(success)).Inc()
}

func (m *DomainMetrics) QuotaRejected() {
	if m == nil {
		return
	}
	m.quotaRejected.Inc()
}

func (m *DomainMetrics) Notification(eventType string, success bool) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(eventType, result(success)).Inc()
}

func result(success bool) string {
	if success {
		return ResultSuccess
	}
	return ResultFailure
}

package metrics

import (
	"net/http"

	"court-booking/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_commands_total",
			Help: "Booking commands by outcome (ok or the failure code)",
		},
		[]string{"command", "outcome"},
	)
	NotificationsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_notifications_published_total",
			Help: "Notification jobs handled by the relay",
		},
		[]string{"outcome"},
	)
)

const OutcomeOK = "ok"

// ObserveCommand counts one execution of command. Coded failures are labelled
// by their code so rule rejections stay distinguishable from outages.
func ObserveCommand(command string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = errs.CodeOf(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	CommandsTotal.WithLabelValues(command, outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}

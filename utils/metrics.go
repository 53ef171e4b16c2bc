package utils

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FollowUpJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "followup_jobs_total",
		Help: "Booking follow-up side effects by job and result (ok, failed, skipped)",
	}, []string{"job", "result"})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Requests to third-party APIs by provider and HTTP status (0 = transport failure)",
	}, []string{"provider", "status"})
)

// ObserveUpstream records one upstream call.
func ObserveUpstream(provider string, status int) {
	UpstreamRequests.WithLabelValues(provider, strconv.Itoa(status)).Inc()
}

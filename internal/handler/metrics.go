package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classpulse_checkins_total",
		Help: "Attendance check-ins recorded.",
	})
	loginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classpulse_logins_total",
		Help: "Successful logins.",
	})
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classpulse_registrations_total",
		Help: "Accounts created.",
	})
)

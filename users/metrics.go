package users

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	usersLoaded = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "users_loaded_total",
		Help: "The total number of user records successfully loaded",
	}, []string{"format"})

	loadErrors = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "users_load_errors_total",
		Help: "The total number of failed loads, by kind (io or parse)",
	}, []string{"kind"})

	filterEvaluated = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "users_filter_evaluated_total",
		Help: "The total number of user records evaluated by Filter",
	})

	filterKept = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "users_filter_kept_total",
		Help: "The total number of user records kept by Filter",
	})
)

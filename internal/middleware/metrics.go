package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domainreg_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// SweepTransitions counts lifecycle transitions performed by the retention sweeper.
	SweepTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domainreg_sweep_transitions_total",
		Help: "Total number of retention sweeper transitions by kind",
	}, []string{"kind"})
)

// InitMetrics creates the Prometheus HTTP metrics instrumentation for the service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the HTTP instrumentation middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fitpulse_redis_errors_total",
	Help: "Total number of Redis command errors.",
}, []string{"command"})

// WriteFailures counts failed backend writes by relation and action.
// These are the failures the view-model layer surfaces as notifications.
var WriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fitpulse_write_failures_total",
	Help: "Total number of failed store writes.",
}, []string{"relation", "action"})

// InitMetrics creates the Prometheus HTTP middleware for the service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware adapts the Prometheus middleware into a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

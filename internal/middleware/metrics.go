package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts failed Redis commands by command name. redis.Nil is not
// an error for this counter.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "campushire_redis_errors_total",
	Help: "Total number of Redis command errors",
}, []string{"operation"})

var promInstance *fiberprometheus.FiberPrometheus

// InitMetrics returns the HTTP metrics collector for serviceName. The
// collector registers with the default registry once per process, so later
// calls return the first instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	if promInstance == nil {
		promInstance = fiberprometheus.New(serviceName)
	}
	return promInstance
}

// MetricsMiddleware records request metrics, skipping the scrape endpoint.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	handler := p.Middleware
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		return handler(c)
	}
}

// Package metrics собирает Prometheus-метрики аутентификации и решений о доступе.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "movie_access"

// Исходы операций аутентификации.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics хранит коллекторы сервиса. Методы безопасны для nil-получателя.
type Metrics struct {
	registry        *prometheus.Registry
	authAttempts    *prometheus.CounterVec
	accessDecisions *prometheus.CounterVec
	tokensIssued    prometheus.Counter
	httpDuration    *prometheus.HistogramVec
}

// New создаёт метрики в собственном реестре вместе со стандартными коллекторами процесса.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Authentication operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		accessDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_decisions_total",
			Help:      "Authorization guard decisions by guard and reason.",
		}, []string{"guard", "allowed", "reason"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_pairs_issued_total",
			Help:      "Issued access/refresh token pairs.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.authAttempts,
		m.accessDecisions,
		m.tokensIssued,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry возвращает реестр для экспорта и тестов.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AuthAttempt учитывает исход операции аутентификации (register, login, refresh, logout).
func (m *Metrics) AuthAttempt(operation string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.authAttempts.WithLabelValues(operation, outcome).Inc()
}

// TokenIssued учитывает выпуск пары токенов.
func (m *Metrics) TokenIssued() {
	if m == nil {
		return
	}
	m.tokensIssued.Inc()
}

// AccessDecision учитывает решение guard.
func (m *Metrics) AccessDecision(guard string, allowed bool, reason string) {
	if m == nil {
		return
	}
	m.accessDecisions.WithLabelValues(guard, strconv.FormatBool(allowed), reason).Inc()
}

// ObserveHTTP учитывает длительность HTTP-запроса.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

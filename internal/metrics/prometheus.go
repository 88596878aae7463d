package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	KeyExchangesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sso_key_exchanges_total",
		Help: "Total number of ephemeral RSA keys issued.",
	})
	UserRegisteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sso_users_registered_total",
		Help: "Total number of users registered.",
	})
	LoginSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sso_logins_success_total",
		Help: "Total number of successful logins.",
	})
	LoginFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sso_logins_failure_total",
		Help: "Total number of failed logins.",
	})
	AuthorizationCodesIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sso_authorization_codes_issued_total",
		Help: "Total number of authorization codes issued.",
	})
	TokensCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sso_tokens_created_total",
		Help: "Total number of access tokens created.",
	})
	TokenExchangeFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sso_token_exchange_failures_total",
		Help: "Total number of rejected code redemptions by OAuth error code.",
	}, []string{"error"})
)

// InitCustomMetrics registers the custom Prometheus metrics.
// It should be called once at application startup.
func InitCustomMetrics(reg prometheus.Registerer) {
	if reg == nil {
		log.Error().Msg("Prometheus registry is nil, cannot register custom metrics.")
		return
	}

	collectors := map[string]prometheus.Collector{
		"KeyExchangesTotal":             KeyExchangesTotal,
		"UserRegisteredTotal":           UserRegisteredTotal,
		"LoginSuccessTotal":             LoginSuccessTotal,
		"LoginFailureTotal":             LoginFailureTotal,
		"AuthorizationCodesIssuedTotal": AuthorizationCodesIssuedTotal,
		"TokensCreatedTotal":            TokensCreatedTotal,
		"TokenExchangeFailuresTotal":    TokenExchangeFailuresTotal,
	}
	for name, c := range collectors {
		if err := reg.Register(c); err != nil {
			log.Warn().Err(err).Str("metric", name).Msg("Failed to register metric")
		}
	}
	log.Info().Msg("Custom Prometheus metrics registered.")
}

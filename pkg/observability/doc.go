/*
Package observability exports sorting activity as Prometheus metrics.

Metrics are fed through domain.LifecycleHooks, so any runner (or the
session manager) can be observed without knowing about Prometheus:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	r, _ := runner.New("heap", numbers, runner.WithHooks(m.Hooks()))
*/
package observability

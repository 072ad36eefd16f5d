/*
Package observability turns model lifecycle events into logs and metrics.

Both helpers return domain.LifecycleHooks, so they compose with Merge and
plug into a model through model.WithLifecycleHooks:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.LogHooks(logger).Merge(metrics.Hooks())
*/
package observability

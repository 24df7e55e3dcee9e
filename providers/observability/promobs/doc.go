// Package promobs exports client metrics to Prometheus.
//
// [New] wraps another observability.Provider: spans and log calls go to the
// wrapped provider, counters and histograms become Prometheus vectors. Metric
// names are derived from the semconv names by replacing dots with
// underscores, so observability.MetricRequests is exported as
// aistats_client_requests_total. The label set of a metric is fixed by its
// first observation; later observations with different attribute keys are
// dropped with a warning.
//
//	reg := prometheus.NewRegistry()
//	obs := promobs.New(slogobs.New(), promobs.WithRegistry(reg))
//	c, _ := client.New(key, client.WithObserver(obs))
//	http.Handle("/metrics", obs.Handler())
package promobs

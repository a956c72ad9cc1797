// Package instrument exposes a reactive Runtime's internal counters to
// Prometheus and wraps effects in OpenTelemetry spans.
//
// The package is optional: the engine itself has no observability
// dependencies. Wire it up where a host application already runs a
// metrics endpoint or a tracer provider:
//
//	rt := reactive.NewRuntime()
//	instrument.MustRegister(rt, instrument.WithNamespace("myapp"))
//	http.Handle("/metrics", promhttp.Handler())
package instrument

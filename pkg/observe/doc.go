// Package observe wires the reflow runtime into standard observability
// backends: Prometheus counters for the graph's hot paths and
// OpenTelemetry spans around named transactions.
//
// The core never imports a metrics or tracing library; it exposes
// instrumentation hooks that this package installs:
//
//	observe.EnableMetrics(observe.WithNamespace("myapp"))
//
//	tracer := observe.Tracer()
//	tracer.Tx(ctx, "profile-update", func() {
//	    user.Set(newUser)
//	    avatar.Set(newAvatar)
//	})
package observe

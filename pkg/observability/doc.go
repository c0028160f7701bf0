/*
Package observability bridges the engine's lifecycle hooks to Prometheus.

The engine emits no events beyond its hooks and its promise-style result;
this package is the optional layer hosts install when they want run counts,
block dispatch rates and effector latencies on a /metrics endpoint.
*/
package observability

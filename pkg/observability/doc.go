/*
Package observability exports task list activity as Prometheus metrics.

Metrics are fed by the Store's lifecycle hooks (mutations, rejections, notices) and by the
slot instrumentation middleware (persistence reads and writes), so the core never imports
Prometheus itself.
*/
package observability

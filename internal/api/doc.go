// Package api implements the HTTP surface: the Telegram webhook
// endpoint, the shared-secret quiz trigger for external schedulers, and
// a liveness root.
package api

// Package http provides the dashboard's HTTP handlers: artifact queries,
// pipeline run control, health checks, and the websocket endpoint.
package http

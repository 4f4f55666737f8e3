// Package client is a Go client for the remote control agent's HTTP API.
//
// GET requests are retried on transport errors, 429 and 5xx responses with
// exponential backoff. Action requests are sent exactly once: an agent that
// answered 500 did attempt the launch. A circuit breaker stops contacting an
// unreachable agent for a cooldown period.
//
// Example Usage:
//
//	c := client.New(client.DefaultConfig("http://192.168.1.20:5000"))
//	res, err := c.Web(ctx, "https://example.com")
package client

/*
Package monitoring provides Prometheus metrics for the agent.

# Overview

Metrics are registered on a private registry owned by each Metrics value, so
several servers (and tests) can coexist in one process.

# Metrics

  - HTTP request count and latency by route
  - Action attempts by action and result
  - How probed actions were resolved (candidate path or shell fallback)
  - Synchronous command duration
  - Connected devices and uptime
  - Live stream subscribers

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	metrics.RecordAction("office", true, "path")
*/
package monitoring

/*
Package monitoring provides metrics collection for the shell core.

# Overview

This package implements Prometheus-based metrics on a private registry,
tracking HTTP requests, pane and session activity, store failures, prompt
delivery and WebSocket traffic.

# Usage

	metrics := monitoring.NewMetrics()

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	metrics.SetPanesOpen(3)
	metrics.IncLayoutSaves("prompt-settle")

	timer := monitoring.NewTimer(metrics, "store", "save")
	err := store.Save(state)
	timer.StopErr(err)

All recording methods are safe on a nil *Metrics.
*/
package monitoring

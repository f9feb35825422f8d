/*
Package tracing provides lightweight request tracing.

Spans are created per HTTP request and per inbound WebSocket message,
carry a trace id propagated through the X-Trace-ID / X-Span-ID headers,
and are logged through zap by a buffered collector goroutine.

# Usage

	tracer := tracing.New("polychat", logger.Component("trace"))
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	err := tracer.Trace(ctx, "ws.view.navigated", func(ctx context.Context) error {
		return handle(ctx, msg)
	})
*/
package tracing

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
)

// requestID id asignado por el middleware requestid (header X-Request-ID).
func requestID(c *fiber.Ctx) string {
	if v, ok := c.Locals("requestid").(string); ok {
		return v
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// RequestLogger registra una línea por petición con id, método, ruta, status y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	l := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := l.Info()
		switch {
		case status >= 500:
			ev = l.Error().Err(err)
		case status >= 400:
			ev = l.Warn()
		}
		ev.Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", ClientIP(c)).
			Msg("request")
		return err
	}
}

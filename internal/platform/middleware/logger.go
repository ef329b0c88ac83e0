package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cliniq/cliniq/internal/platform/auth"
)

// Logger emits one structured line per request. The actor id and role are
// attached when the caller is authenticated, so "who read which record" is
// answerable from the log alone. The actor is read after the handler chain
// runs because the auth middleware sits further in and swaps the request
// context.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()
			evt := logger.Info()
			if err != nil || res.Status >= http.StatusInternalServerError {
				evt = logger.Error().Err(err)
			}
			if rid, ok := c.Get("request_id").(string); ok {
				evt = evt.Str("request_id", rid)
			}
			if actor := auth.ActorFromContext(req.Context()); actor.ID != "" {
				evt = evt.Str("actor_id", actor.ID).Str("role", string(actor.Role))
			}
			evt.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}

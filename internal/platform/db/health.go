package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// StoreStatus is the readiness payload for the record store. Reachable is
// the result of a live ping; the connection figures come from the pool and
// tell an operator whether the clinic is starving for connections before
// requests start failing.
type StoreStatus struct {
	Reachable  bool   `json:"reachable"`
	TotalConns int32  `json:"total_conns"`
	IdleConns  int32  `json:"idle_conns"`
	InUseConns int32  `json:"in_use_conns"`
	MaxConns   int32  `json:"max_conns"`
	WaitTime   string `json:"wait_time"`
}

func storeStatus(pool *pgxpool.Pool, reachable bool) StoreStatus {
	stat := pool.Stat()
	return StoreStatus{
		Reachable:  reachable,
		TotalConns: stat.TotalConns(),
		IdleConns:  stat.IdleConns(),
		InUseConns: stat.AcquiredConns(),
		MaxConns:   stat.MaxConns(),
		WaitTime:   stat.AcquireDuration().String(),
	}
}

// HealthHandler answers the readiness check. A store that does not respond
// to a ping within its deadline takes the endpoint to 503, which is the
// signal for the load balancer to stop routing clinic traffic here.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unavailable",
				"error":  err.Error(),
				"store":  storeStatus(pool, false),
			})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "ready",
			"store":  storeStatus(pool, true),
		})
	}
}

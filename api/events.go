package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const eventsHeartbeat = 30 * time.Second

// streamEvents pushes a server-sent event whenever the board document
// changes, letting clients refetch instead of polling. A comment line is
// emitted periodically to keep intermediaries from closing the idle
// connection.
func streamEvents(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := d.Auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		if d.Feed == nil {
			return c.String(http.StatusNotFound, "events stream disabled")
		}

		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
		c.Response().Header().Set("X-Accel-Buffering", "no")
		flusher, ok := c.Response().Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "stream unsupported")
		}
		c.Response().WriteHeader(http.StatusOK)
		flusher.Flush()

		sub := d.Feed.Subscribe()
		defer d.Feed.Unsubscribe(sub)

		ctx := c.Request().Context()
		ticker := time.NewTicker(eventsHeartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case at := <-sub:
				payload := fmt.Sprintf("data: {\"changed\":true,\"mtime\":%.6f}\n\n", float64(at.UnixNano())/float64(time.Second))
				if _, err := c.Response().Write([]byte(payload)); err != nil {
					return nil
				}
				flusher.Flush()
			case <-ticker.C:
				if _, err := c.Response().Write([]byte(": keep-alive\n\n")); err != nil {
					return nil
				}
				flusher.Flush()
			}
		}
	}
}

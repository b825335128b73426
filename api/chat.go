package api

import (
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"boardd/relay"
)

type chatRequest struct {
	Messages []relay.Message `json:"messages"`
}

// postChat forwards a conversation to the completion relay and re-emits its
// text deltas as server-sent events. The handler adds no logic of its own
// beyond transport framing.
func postChat(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := d.Auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		if d.Relay == nil {
			return c.String(http.StatusNotFound, "chat relay disabled")
		}

		var req chatRequest
		dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, postChatMaxSize))
		if err := dec.Decode(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}

		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		flusher, ok := c.Response().Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "stream unsupported")
		}
		c.Response().WriteHeader(http.StatusOK)

		ctx := c.Request().Context()
		streamErr := d.Relay.Stream(ctx, req.Messages, func(delta string) error {
			data, err := sonic.Marshal(map[string]string{"delta": delta})
			if err != nil {
				return err
			}
			if _, err := c.Response().Write([]byte("data: ")); err != nil {
				return err
			}
			if _, err := c.Response().Write(data); err != nil {
				return err
			}
			if _, err := c.Response().Write([]byte("\n\n")); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		})
		if streamErr != nil {
			d.Log.WithError(streamErr).Warn("chat relay stream ended with error")
			// The status line is already out; surface the failure in-band.
			if _, err := c.Response().Write([]byte("event: error\ndata: {\"error\":\"stream failed\"}\n\n")); err != nil {
				return nil
			}
			flusher.Flush()
			return nil
		}
		if _, err := c.Response().Write([]byte("event: done\ndata: {}\n\n")); err != nil {
			return nil
		}
		flusher.Flush()
		return nil
	}
}

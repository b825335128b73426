package api

import (
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"boardd/briefs"
	"boardd/config"
	"boardd/domain"
)

const (
	putBoardMaxSize  = 4 << 20
	postBriefMaxSize = 256 << 10
	postChatMaxSize  = 1 << 20
)

// Deps bundles the collaborators the handlers are wired against.
type Deps struct {
	Store  BoardStore
	Briefs BriefCreator
	Auth   Authenticator
	Relay  ChatRelay  // nil when no completion API key is configured
	Feed   ChangeFeed // nil disables the events stream
	Config *config.Manager
	Log    *log.Logger
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, d Deps) {
	if d.Log == nil {
		d.Log = log.StandardLogger()
	}
	e.GET("/ping", ping(d))
	e.GET("/healthz", healthz(d))
	e.GET("/api/board", getBoard(d))
	e.PUT("/api/board", putBoard(d))
	e.POST("/api/brief", postBrief(d))
	e.GET("/config", getConfig(d))
	e.POST("/config", postConfig(d))
	e.GET("/api/events", streamEvents(d))
	e.POST("/api/chat", postChat(d))
}

type boardResponse struct {
	Board *domain.Board `json:"board"`
	Mtime float64       `json:"mtime"`
}

type writeResponse struct {
	OK    bool    `json:"ok"`
	Mtime float64 `json:"mtime"`
}

type briefResponse struct {
	OK   bool   `json:"ok"`
	Link string `json:"link"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func ping(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		cfg := d.Config.Current()
		return c.JSON(http.StatusOK, map[string]any{
			"ok":         true,
			"vault":      cfg.VaultPath,
			"board_file": cfg.BoardFile,
		})
	}
}

func healthz(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		// The server is healthy when the board directory is reachable; the
		// document itself may legitimately not exist yet.
		if _, _, err := d.Store.Read(); err != nil {
			return c.String(http.StatusServiceUnavailable, err.Error())
		}
		return c.NoContent(http.StatusOK)
	}
}

func getBoard(d Deps) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newBoardRequestMetrics(ctx, d.Log)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		if _, authErr := d.Auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); authErr != nil {
			metrics.SetErrorStage("auth")
			err = c.String(http.StatusUnauthorized, authErr.Error())
			return err
		}

		readStart := time.Now()
		b, mtime, readErr := d.Store.Read()
		metrics.ObserveRead(time.Since(readStart))
		if readErr != nil {
			metrics.SetErrorStage("storage")
			d.Log.WithError(readErr).Error("board read failed")
			err = c.JSON(http.StatusInternalServerError, errorResponse{Error: readErr.Error()})
			return err
		}
		if b == nil {
			// First run: materialize the starter board and persist it so the
			// document exists for hand editing.
			metrics.SetMaterialized(true)
			b = domain.DefaultBoard()
			mtime, readErr = d.Store.Write(b)
			if readErr != nil {
				metrics.SetErrorStage("materialize")
				d.Log.WithError(readErr).Error("default board write failed")
				err = c.JSON(http.StatusInternalServerError, errorResponse{Error: readErr.Error()})
				return err
			}
		}
		metrics.SetCardsReturned(cardCount(b))

		err = c.JSON(http.StatusOK, boardResponse{Board: b, Mtime: mtimeSeconds(mtime)})
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func putBoard(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := d.Auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		lr := io.LimitReader(c.Request().Body, putBoardMaxSize)
		dec := sonic.ConfigStd.NewDecoder(lr)
		dec.DisallowUnknownFields()

		var b domain.Board
		if err := dec.Decode(&b); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		b.Normalize()

		mtime, err := d.Store.Write(&b)
		if err != nil {
			d.Log.WithError(err).Error("board write failed")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, writeResponse{OK: true, Mtime: mtimeSeconds(mtime)})
	}
}

func postBrief(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := d.Auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		lr := io.LimitReader(c.Request().Body, postBriefMaxSize)
		dec := sonic.ConfigStd.NewDecoder(lr)

		var card domain.Card
		if err := dec.Decode(&card); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}

		// The board's own Functions section supplies labels; a failed read
		// just falls back to the built-in table.
		var fns []domain.Function
		if b, _, err := d.Store.Read(); err == nil && b != nil {
			fns = b.Functions
		}

		link, err := d.Briefs.Create(card, briefs.LabelLookup(fns))
		if err != nil {
			d.Log.WithError(err).Error("brief creation failed")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, briefResponse{OK: true, Link: link})
	}
}

func getConfig(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		cfg := d.Config.Current()
		return c.JSON(http.StatusOK, map[string]string{
			"vault":      cfg.VaultPath,
			"board_file": cfg.BoardFile,
		})
	}
}

func postConfig(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := d.Auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		var cfg config.Config
		dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, postBriefMaxSize))
		if err := dec.Decode(&cfg); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if err := d.Config.Update(cfg); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		d.Log.WithFields(log.Fields{"vault": cfg.VaultPath, "board_file": cfg.BoardFile}).Info("config saved")
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	}
}

func cardCount(b *domain.Board) int {
	total := 0
	for _, key := range domain.ColumnKeys {
		total += len(b.Columns[key])
	}
	return total
}

// mtimeSeconds renders a modification time the way the document's stat would:
// fractional Unix seconds, zero when the time is unset.
func mtimeSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / float64(time.Second)
}

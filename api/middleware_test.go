package api

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGzipRequestMiddlewareDecompresses(t *testing.T) {
	e := echo.New()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(`{"hello":"world"}`)); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/board", &buf)
	req.Header.Set(echo.HeaderContentEncoding, "gzip")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	next := func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		seen = string(body)
		return nil
	}
	if err := GzipRequestMiddleware()(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if seen != `{"hello":"world"}` {
		t.Fatalf("unexpected body: %q", seen)
	}
	if c.Request().Header.Get(echo.HeaderContentEncoding) != "" {
		t.Fatal("content encoding header should be removed")
	}
}

func TestGzipRequestMiddlewarePassthrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/board", strings.NewReader("plain"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		body, _ := io.ReadAll(c.Request().Body)
		if string(body) != "plain" {
			t.Fatalf("body altered: %q", body)
		}
		return nil
	}
	if err := GzipRequestMiddleware()(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
}

func TestGzipRequestMiddlewareRejectsInvalidGzip(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/board", strings.NewReader("not gzip"))
	req.Header.Set(echo.HeaderContentEncoding, "gzip")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := GzipRequestMiddleware()(func(echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", httpErr.Code)
	}
}

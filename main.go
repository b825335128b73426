package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/MicahParks/keyfunc"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"boardd/api"
	"boardd/briefs"
	"boardd/config"
	"boardd/relay"
	"boardd/storage"
)

const (
	defaultListenAddr = ":7783"
	defaultChatModel  = "claude-3-5-sonnet-latest"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	cfgMgr, err := config.NewManager(config.DefaultPath())
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := log.New()

	store := storage.NewDynamic(func() string { return cfgMgr.Current().BoardPath() }, logger)
	briefWriter := briefs.NewDynamicWriter(func() (string, string) {
		cfg := cfgMgr.Current()
		return cfg.VaultPath, cfg.BriefsDir()
	}, logger)

	var auth *api.Auth
	if jwksDomain := os.Getenv("AUTH_JWKS_DOMAIN"); jwksDomain != "" {
		jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", jwksDomain)
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{})
		if err != nil {
			log.Fatalf("jwks: %v", err)
		}
		auth = api.NewJWKSAuth(jwks, os.Getenv("AUTH_AUDIENCE"), "https://"+jwksDomain+"/")
	} else {
		auth = api.NewLocalAuth(os.Getenv("AUTH_SHARED_SECRET"))
	}

	deps := api.Deps{
		Store:  store,
		Briefs: briefWriter,
		Auth:   auth,
		Config: cfgMgr,
		Log:    logger,
	}

	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		model := os.Getenv("CHAT_MODEL")
		if model == "" {
			model = defaultChatModel
		}
		deps.Relay = relay.New(apiKey, model, logger)
	}

	boardPath := cfgMgr.Current().BoardPath()
	if watcher, err := storage.NewWatcher(boardPath, logger); err != nil {
		logger.WithError(err).Warn("board watcher unavailable")
	} else if err := watcher.Start(); err != nil {
		// The vault may not exist yet; the server still works without the
		// events stream.
		logger.WithError(err).Warn("board watcher not started")
	} else {
		deps.Feed = watcher
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(api.GzipRequestMiddleware())

	api.Register(e, deps)

	listenAddr := defaultListenAddr
	if v := os.Getenv("PORT"); v != "" {
		listenAddr = ":" + v
	}
	logger.WithFields(log.Fields{
		"addr":  listenAddr,
		"board": boardPath,
	}).Info("boardd ready")

	e.Logger.Fatal(e.Start(listenAddr))
}

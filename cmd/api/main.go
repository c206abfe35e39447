/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sprintdeck/sprintdeck/internal/adapters/openai"
	"github.com/sprintdeck/sprintdeck/internal/config"
	httpapi "github.com/sprintdeck/sprintdeck/internal/http"
	"github.com/sprintdeck/sprintdeck/internal/logger"
	"github.com/sprintdeck/sprintdeck/internal/session"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg)

	// Adapters
	llm := openai.NewClient(cfg, log)

	// Sessions + janitor
	mgr := session.NewManager(cfg, log)
	mgr.Start()
	defer mgr.Stop()

	// HTTP server (Gin)
	h := httpapi.NewHandlers(cfg, log, mgr, llm)
	router := httpapi.NewRouter(cfg, log, h)

	errCh := make(chan error, 1)
	go func() { errCh <- router.Run(cfg.HTTPAddr) }()
	log.Info().Str("addr", cfg.HTTPAddr).Bool("llm", llm.Enabled()).Msg("sprintdeck api up")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info().Msg("shutting down...")
	case err := <-errCh:
		if err != nil { log.Error().Err(err).Msg("http server error") }
	}

	time.Sleep(500 * time.Millisecond)
}

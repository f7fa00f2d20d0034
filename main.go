package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/agents/assistant"
	"github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/agents/orchestrator"
	cartx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/cart"
	catalogx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/catalog"
	gatewayx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/gateway"
	llmx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/llm"
	statex "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/state"
	configx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/pkg/config"
	_ "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/pkg/openrouter"
	serverx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	storeCfg := configx.MustNew[catalogx.Config]("FAKESTORE")

	api, err := catalogx.NewClient(*storeCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build store client")
	}

	carts := cartx.NewStore(api)
	gw := gatewayx.New(api, carts)
	exec := gatewayx.NewExecutor(gw)

	client := openrouterx.NewClient(llmCfg.OpenRouter())
	models := assistant.NewRegistry(client, *llmCfg)

	agent, err := orchestrator.New(statex.NewMemoryStore(), models, exec)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}
	if err := agent.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("capability discovery failed at startup, will retry on first query")
	}

	srv := &http.Server{
		Addr:    serverCfg.ListenAddr,
		Handler: serverx.New(*serverCfg, gw, agent).Router(),
	}

	go func() {
		log.Info().Str("addr", serverCfg.ListenAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

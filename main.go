package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hotelhive/server/agent/agents/concierge"
	contractx "github.com/hotelhive/server/agent/contract"
	llmx "github.com/hotelhive/server/agent/llm"
	promptx "github.com/hotelhive/server/agent/prompt"
	responderx "github.com/hotelhive/server/agent/responder"
	routerx "github.com/hotelhive/server/agent/router"
	sessionx "github.com/hotelhive/server/agent/session"
	"github.com/hotelhive/server/internal/booking"
	"github.com/hotelhive/server/internal/hotel/bunstore"
	"github.com/hotelhive/server/internal/hotel/csvfile"
	"github.com/hotelhive/server/internal/hotel/store"
	"github.com/hotelhive/server/internal/toolhost"
	configx "github.com/hotelhive/server/pkg/config"
	logx "github.com/hotelhive/server/pkg/logger"
	redisx "github.com/hotelhive/server/pkg/redis"
	"github.com/hotelhive/server/server"
)

type AppConfig struct {
	DataDir     string        `envconfig:"DATA_DIR" split_words:"true" default:"./data"`
	PostgresDSN string        `envconfig:"POSTGRES_DSN" split_words:"true"`
	SessionTTL  time.Duration `envconfig:"SESSION_TTL" split_words:"true" default:"24h"`
	TurnTimeout time.Duration `envconfig:"TURN_TIMEOUT" split_words:"true" default:"30s"`
}

func main() {
	logCfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*logCfg)

	appCfg := configx.MustNew[AppConfig]("")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := newBackend(ctx, appCfg)

	catalog, err := store.LoadCatalog(ctx, backend)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load hotel catalog")
	}
	inventory, err := store.LoadInventory(ctx, backend)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load availability inventory")
	}
	ledger, err := store.LoadLedger(ctx, backend)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load bookings ledger")
	}
	logx.Info().
		Int("hotels", catalog.Len()).
		Int("slots", inventory.Len()).
		Int("bookings", ledger.Len()).
		Msg("hotel data loaded")

	workflow := booking.NewWorkflow(catalog, inventory, ledger)

	redisCfg := configx.MustNew[redisx.Config]("REDIS")
	sessions := sessionx.Connect(ctx, *redisCfg, appCfg.SessionTTL)

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		logx.Fatal().Err(err).Msg("invalid llm configuration")
	}
	prompts := promptx.LoadPromptSet()

	routerLLM := llmCfg.OpenRouterFor(contractx.RoleRouter)
	routerModel, err := routerLLM.New(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to create router model")
	}
	classifier, err := routerx.NewLLMClassifier(ctx, routerModel, prompts.Router)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build classifier")
	}

	resp, err := responderx.New(llmCfg.OpenRouterFor(contractx.RoleResponder), prompts)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build responder")
	}

	host := toolhost.New(catalog, inventory, ledger, workflow, resp)

	conc, err := concierge.New(sessions, routerx.New(classifier), host, concierge.Config{
		TurnTimeout: appCfg.TurnTimeout,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build concierge")
	}

	srvCfg := configx.MustNew[server.Config]("SERVER")
	if err := server.New(conc, host, *srvCfg).Run(ctx); err != nil {
		logx.Fatal().Err(err).Msg("server exited with error")
	}
}

// newBackend picks the tabular store: Postgres when a DSN is configured,
// CSV files otherwise.
func newBackend(ctx context.Context, cfg *AppConfig) store.Backend {
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err := bunstore.New(cfg.PostgresDSN)
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to open postgres backend")
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			logx.Fatal().Err(err).Msg("failed to ensure postgres schema")
		}
		logx.Info().Msg("using postgres backend")
		return pg
	}

	logx.Info().Str("dir", cfg.DataDir).Msg("using csv backend")
	return csvfile.New(cfg.DataDir)
}

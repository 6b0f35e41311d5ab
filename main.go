package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tourwise/leasing-concierge/agent/oracle"
	orchestratorx "github.com/tourwise/leasing-concierge/agent/orchestrator"
	toolx "github.com/tourwise/leasing-concierge/agent/tool"
	"github.com/tourwise/leasing-concierge/leasing"
	configx "github.com/tourwise/leasing-concierge/pkg/config"
	"github.com/tourwise/leasing-concierge/pkg/crmhook"
	_ "github.com/tourwise/leasing-concierge/pkg/logger/autoload"
)

type AppConfig struct {
	CRMWebhookURL string `envconfig:"CRM_WEBHOOK_URL"`
	CRMToken      string `envconfig:"CRM_WEBHOOK_TOKEN"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")

	pgCfg := configx.MustNew[leasing.PostgresConfig]("LEASING_DB")
	store, err := leasing.NewPostgresStore(*pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init postgres store")
	}

	serviceOpts := []leasing.ServiceOption{}
	if appCfg.CRMWebhookURL != "" {
		notifier := crmhook.MustNew(crmhook.Config{
			URL:   appCfg.CRMWebhookURL,
			Token: appCfg.CRMToken,
		})
		serviceOpts = append(serviceOpts, leasing.WithNotifier(notifier))
	}

	svc, err := leasing.NewService(store, log.With().Str("component", "leasing").Logger(), serviceOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("init leasing service")
	}

	oracleCfg := configx.MustNew[oracle.Config]("OPENROUTER")
	chatOracle, err := oracle.New(ctx, *oracleCfg, toolx.Infos())
	if err != nil {
		log.Fatal().Err(err).Msg("init oracle")
	}

	gateway := toolx.NewGateway(svc)

	orch, err := orchestratorx.New(chatOracle, gateway, svc, log.With().Str("component", "orchestrator").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("init orchestrator")
	}
	_ = orch

	log.Info().Msg("leasing concierge wired and ready")
}

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	leadx "github.com/daisylabs/leadgpt/agent/agents/lead"
	contractx "github.com/daisylabs/leadgpt/agent/contract"
	llmx "github.com/daisylabs/leadgpt/agent/llm"
	sessionx "github.com/daisylabs/leadgpt/agent/session"
	toolx "github.com/daisylabs/leadgpt/agent/tool"
	configx "github.com/daisylabs/leadgpt/pkg/config"
	_ "github.com/daisylabs/leadgpt/pkg/logger/autoload"
	openrouterx "github.com/daisylabs/leadgpt/pkg/openrouter"
	serverx "github.com/daisylabs/leadgpt/server"
)

type AppConfig struct {
	PolicyPath string `envconfig:"POLICY_PATH" split_words:"true" default:"data/policy.txt"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	agentCfg := configx.MustNew[contractx.AgentConfig]("AGENT")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	productDBCfg := configx.MustNew[toolx.ProductDBConfig]("PRODUCT_DB")

	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}
	pingOpenRouter(ctx, *llmCfg)

	gens, err := buildGenerators(ctx, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build generators")
	}

	db, err := toolx.NewProductDB(*productDBCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open product database")
	}
	defer db.Close()

	policySearch, err := toolx.NewPolicySearchFromFile(appCfg.PolicyPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal().Err(err).Str("path", appCfg.PolicyPath).Msg("failed to load policy file")
		}
		log.Warn().Str("path", appCfg.PolicyPath).Msg("policy file missing, policy search will answer with the not-found sentinel")
		policySearch = toolx.NewPolicySearch(nil)
	}

	tools := toolx.NewRegistry(
		toolx.NewProductSearch(db),
		policySearch,
	)

	svc, err := leadx.New(*agentCfg, sessionx.NewStore(), gens, tools)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build lead service")
	}

	router := serverx.New(svc)
	log.Info().Str("addr", serverCfg.Addr).Msg("starting chat server")
	if err := router.Run(serverCfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func buildGenerators(ctx context.Context, cfg llmx.Config) (leadx.Generators, error) {
	classifier, err := llmx.NewGenerator(ctx, roleBuilder(cfg, llmx.RoleClassifier), "lead.classifier_model")
	if err != nil {
		return leadx.Generators{}, err
	}
	summarizer, err := llmx.NewGenerator(ctx, roleBuilder(cfg, llmx.RoleSummarizer), "lead.summarizer_model")
	if err != nil {
		return leadx.Generators{}, err
	}
	agent, err := llmx.NewGenerator(ctx, roleBuilder(cfg, llmx.RoleAgent), "lead.agent_model")
	if err != nil {
		return leadx.Generators{}, err
	}
	return leadx.Generators{
		Classifier: classifier,
		Summarizer: summarizer,
		Agent:      agent,
	}, nil
}

func roleBuilder(cfg llmx.Config, role llmx.Role) openrouterx.LLMBuilder {
	roleCfg := cfg.OpenRouterFor(role)
	return &roleCfg
}

// pingOpenRouter fails fast on bad credentials instead of surfacing them
// on the first chat turn.
func pingOpenRouter(ctx context.Context, cfg llmx.Config) {
	client := openrouterx.NewClient(cfg.OpenRouterFor(llmx.RoleAgent))
	if client == nil {
		log.Fatal().Msg("openrouter api key is required")
	}
	if _, err := client.Models.List(ctx); err != nil {
		log.Warn().Err(err).Msg("openrouter credential check failed, continuing anyway")
	}
}

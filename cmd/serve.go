package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"hireflow/internal/ai"
	"hireflow/internal/ai/gemini"
	"hireflow/internal/ai/groq"
	"hireflow/internal/execution"
	"hireflow/internal/funnel"
	"hireflow/internal/interview"
	loggerpkg "hireflow/internal/logger"
	"hireflow/internal/matching"
	"hireflow/internal/notify"
	"hireflow/internal/secrets"
	"hireflow/internal/server"
	"hireflow/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hiring funnel API server",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", ":8080", "address for the http server to listen on")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

// app bundles everything serve and review wire up from the config.
type appDeps struct {
	db         *sql.DB
	candidates *store.Candidates
	funnel     *funnel.Funnel
	interviews *interview.Service
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := loggerpkg.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting hireflow", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	deps, err := buildApp(ctx, config, logger)
	if err != nil {
		logger.Fatal("wiring the application", zap.Error(err))
	}
	defer deps.db.Close()

	srv := server.New(deps.funnel, deps.candidates, deps.interviews, logger)
	if err := srv.ListenAndServe(ctx, viper.GetString("listen")); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

// buildApp wires stores, the reasoning service, the sandbox, and the funnel
// from the config. Optional collaborators that are not configured degrade to
// their local fallbacks rather than failing startup.
func buildApp(ctx context.Context, config *Config, logger *zap.Logger) (*appDeps, error) {
	db, err := store.Open(config.Storage.Path)
	if err != nil {
		return nil, err
	}

	gen, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	if gen == nil {
		logger.Warn("no reasoning service configured, running on static question bank and fallback scoring")
	}

	interviews := interview.NewService(store.NewSessions(db), gen, newRunner(config.Sandbox, logger), logger,
		interviewOptions(config)...)

	candidates := store.NewCandidates(db)
	f := funnel.New(
		candidates,
		store.NewJobs(db),
		matching.New(newMatchingService(config.Matching, logger), logger),
		interviews,
		newNotifier(config.SMTP, logger),
		*config.Thresholds,
		logger,
	)

	return &appDeps{
		db:         db,
		candidates: candidates,
		funnel:     f,
		interviews: interviews,
	}, nil
}

func interviewOptions(config *Config) []interview.Option {
	opts := []interview.Option{}
	if config.BaseURL != "" {
		opts = append(opts, interview.WithBaseURL(config.BaseURL))
	}
	if ic := config.Interview; ic != nil {
		if ic.Technical > 0 || ic.Behavioral > 0 || ic.Coding > 0 {
			opts = append(opts, interview.WithShape(interview.Shape{
				Technical:  ic.Technical,
				Behavioral: ic.Behavioral,
				Coding:     ic.Coding,
			}))
		}
		if ic.ExpiryDays > 0 {
			opts = append(opts, interview.WithExpiry(time.Duration(ic.ExpiryDays)*24*time.Hour))
		}
	}
	return opts
}

// newGenerator builds the configured reasoning service client wrapped in the
// retry policy. Returns nil when no provider is configured.
func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		return nil, nil
	}

	policy := ai.DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxAttempts = cfg.MaxRetries
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", "groq":
		groqCfg := cfg.Groq
		if groqCfg == nil {
			groqCfg = &GroqConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "groq api key",
			File: groqCfg.APIKeyFile,
			Env:  "GROQ_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.groq.api-key-file or GROQ_API_KEY)", err)
		}

		timeout := time.Duration(groqCfg.TimeoutSeconds) * time.Second
		base, err := groq.NewGenerator(apiKey, groqCfg.Model, timeout, loggerpkg.WithProvider(logger, "groq", groqCfg.Model))
		if err != nil {
			return nil, err
		}
		policy.DegradedModel = groqCfg.DegradedModel
		return ai.WithRetry(base, policy, logger), nil

	case "gemini":
		geminiCfg := cfg.Gemini
		if geminiCfg == nil {
			geminiCfg = &GeminiConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: geminiCfg.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		base, err := gemini.NewGenerator(ctx, apiKey, geminiCfg.Model)
		if err != nil {
			return nil, err
		}
		policy.DegradedModel = geminiCfg.DegradedModel
		return ai.WithRetry(base, policy, logger), nil

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newMatchingService(cfg *MatchingConfig, logger *zap.Logger) matching.Service {
	if cfg == nil || cfg.URL == "" {
		return nil
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "matching api key",
		File: cfg.APIKeyFile,
		Env:  "MATCHING_API_KEY",
	})
	if err != nil {
		logger.Warn("matching service key unavailable, using local overlap only", zap.Error(err))
		return nil
	}
	return matching.NewClient(cfg.URL, apiKey)
}

func newRunner(cfg *SandboxConfig, logger *zap.Logger) execution.Runner {
	if cfg == nil || cfg.Host == "" {
		return execution.Disabled{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "sandbox api key",
		File: cfg.APIKeyFile,
		Env:  "JUDGE0_API_KEY",
	})
	if err != nil {
		logger.Warn("sandbox key unavailable, coding answers will not be executed", zap.Error(err))
		return execution.Disabled{}
	}
	return execution.NewJudge0Client(cfg.Host, apiKey, logger)
}

func newNotifier(cfg *notify.SMTPConfig, logger *zap.Logger) notify.Notifier {
	if cfg != nil && cfg.Enabled() {
		return notify.NewSMTP(*cfg)
	}
	return notify.Log{Logger: logger}
}

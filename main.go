package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"reel_idea_generator/config"
	"reel_idea_generator/generator"
	"reel_idea_generator/history"
	"reel_idea_generator/render"
	"reel_idea_generator/server"
)

var (
	configPath string
	verbose    bool
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reels",
	Short: "Generador de ideas de Reels para Instagram",
	Long: `reels asks a generative-language model for three Instagram Reel ideas
(title, hook/development/CTA script, hashtags and a visual suggestion) for a
business category and communication goal.

Run "reels serve" for the web form or "reels generate" for a one-off run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var (
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE:  runServe,
}

var (
	genForm generator.Request
	genJSON bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate three Reel ideas and print them",
	Example: `  reels generate --category "Tienda de ropa vintage" --goal "Atraer nuevos clientes"
  reels generate --category Cafetería --goal "Vender más" --theme Humor --json`,
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.json", "path to config file (.json or .yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "http listen address (overrides config.server_addr)")

	generateCmd.Flags().StringVar(&genForm.Category, "category", "", "business category (required)")
	generateCmd.Flags().StringVar(&genForm.Goal, "goal", "", "communication goal (required)")
	generateCmd.Flags().StringVar(&genForm.Theme, "theme", "", "theme of the reel")
	generateCmd.Flags().StringVar(&genForm.UserIdea, "idea", "", "initial idea to develop")
	generateCmd.Flags().StringVar(&genForm.ReferenceLink, "link", "", "reference video link")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "print raw JSON instead of rendered Markdown")

	rootCmd.AddCommand(serveCmd, generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	// The default path is optional; an explicit --config must exist.
	return config.LoadConfig(configPath, cmd.Flags().Changed("config"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llm, err := buildLLM(ctx, cfg)
	if err != nil {
		return err
	}
	agent, err := generator.NewAgent(llm, logger.Named("generator"))
	if err != nil {
		return err
	}
	store, closeStore, err := buildHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv, err := server.New(agent, store, server.Options{
		Timeout: cfg.Timeout(),
		Logger:  logger.Named("server"),
	})
	if err != nil {
		return err
	}

	listen := cfg.ServerAddr
	if serveAddr != "" {
		listen = serveAddr
	}
	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting web server",
			zap.String("addr", listen),
			zap.String("provider", cfg.LLM.Provider),
			zap.String("history", cfg.History.Backend))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
	defer cancel()

	llm, err := buildLLM(ctx, cfg)
	if err != nil {
		return err
	}
	agent, err := generator.NewAgent(llm, logger.Named("generator"))
	if err != nil {
		return err
	}
	logger.Info("generating ideas", zap.String("category", genForm.Category), zap.String("goal", genForm.Goal))
	resp, err := agent.Generate(ctx, genForm)
	if err != nil {
		return err
	}
	return printIdeas(cmd.OutOrStdout(), resp)
}

func printIdeas(w io.Writer, resp generator.IdeasResponse) error {
	if genJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	md := render.Markdown(resp.Ideas())
	term, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		_, err = io.WriteString(w, md)
		return err
	}
	out, err := term.Render(md)
	if err != nil {
		_, err = io.WriteString(w, md)
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func buildLLM(ctx context.Context, cfg config.Config) (generator.LLMClient, error) {
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model/api_key_env in config")
	}
	settings := &generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	}
	switch cfg.LLM.Provider {
	case "gemini":
		return generator.NewGeminiLLMFromConfig(ctx, settings)
	case "openai", "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
		return generator.NewOpenAILLMFromConfig(settings)
	case "mock":
		logger.Warn("using mock llm provider; ideas are canned samples")
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func buildHistoryStore(ctx context.Context, cfg config.Config) (history.Store, func(), error) {
	switch cfg.History.Backend {
	case "memory":
		return history.NewMemoryStore(), func() {}, nil
	case "sqlite":
		s, err := history.OpenSQLite(cfg.History.Path, logger.Named("gorm"))
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "redis":
		s, err := history.OpenRedis(ctx, history.RedisOptions{
			Addr:     cfg.History.RedisAddr,
			Username: cfg.History.RedisUsername,
			Password: cfg.History.RedisPassword,
			DB:       cfg.History.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("history backend %s not supported", cfg.History.Backend)
	}
}

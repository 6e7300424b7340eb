package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/legalscan/legalscan/internal/analyzer"
	"github.com/legalscan/legalscan/internal/config"
	"github.com/legalscan/legalscan/internal/crawler"
	"github.com/legalscan/legalscan/internal/database"
	"github.com/legalscan/legalscan/internal/model"
	"github.com/legalscan/legalscan/internal/normalize"
	"github.com/legalscan/legalscan/internal/report"
	"github.com/legalscan/legalscan/internal/session"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [site-url]",
		Short: "Crawl a website for legal documents and analyze them",
		Long: `Crawl fetches a site's entry page, finds links to legal documents
(privacy policies, terms of service, and similar pages), extracts their
text, and analyzes each document with an LLM provider.

Documents and analyses are cached locally. A repeat crawl of the same
site within the cache validity window is served entirely from the cache.

Examples:
  # Crawl a single site
  legalscan crawl example.com

  # Crawl multiple sites
  legalscan crawl example.com other.org

  # Only look for privacy policies
  legalscan crawl --types privacy example.com

  # Bypass the caches and re-fetch everything (privileged users only)
  legalscan crawl --user admin --force-refresh example.com

  # Output JSON report to a file
  legalscan crawl --json -o report.json example.com

Configuration file (.legalscan) example:
  sites:
    example.com:
      cookie: "consent=accepted"
      headers:
        Accept-Language: "en-US"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().StringSlice("types",
		nil, "Document types to crawl (privacy, tos, terms_and_conditions, terms_of_use); default all")
	cmd.Flags().Int("max-per-type", config.DefaultMaxPerType,
		"Maximum candidate documents fetched per document type")
	cmd.Flags().Int("concurrency", config.DefaultFetchConcurrency,
		"Number of candidate pages fetched in parallel")
	cmd.Flags().Duration("session-timeout", config.DefaultSessionTimeout,
		"Overall time limit for one crawl session")

	// Cache control flags
	cmd.Flags().BoolP("force-refresh", "f", false,
		"Bypass the document and analysis caches (privileged users only)")
	cmd.Flags().StringP("user", "u", "cli",
		"User ID that owns the crawl session")
	cmd.Flags().StringSlice("admins", []string{"admin"},
		"User IDs allowed to use --force-refresh")

	// Provider flags
	cmd.Flags().Int("fallback-limit", config.DefaultFallbackDailyLimit,
		"Secondary-provider analyses allowed per day (0 disables fallback)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .legalscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (the default format)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Storage flags
	cmd.Flags().String("db-dir", "",
		"Directory for the SQLite cache database (default: XDG data directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential sanitization
	verbose := getVerboseFlag(cmd)
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	admins, err := cmd.Flags().GetStringSlice("admins")
	if err != nil {
		return err
	}

	return runCrawl(ctx, cfg, admins, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.DocumentTypes, err = cmd.Flags().GetStringSlice("types")
	if err != nil {
		return nil, err
	}

	cfg.MaxPerType, err = cmd.Flags().GetInt("max-per-type")
	if err != nil {
		return nil, err
	}

	cfg.FetchConcurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.SessionTimeout, err = cmd.Flags().GetDuration("session-timeout")
	if err != nil {
		return nil, err
	}

	cfg.ForceRefresh, err = cmd.Flags().GetBool("force-refresh")
	if err != nil {
		return nil, err
	}

	cfg.UserID, err = cmd.Flags().GetString("user")
	if err != nil {
		return nil, err
	}

	cfg.FallbackDailyLimit, err = cmd.Flags().GetInt("fallback-limit")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	// Get positional arguments (site URLs)
	cfg.Targets = args

	return cfg, nil
}

// parseDocumentTypes converts type flag values into model types.
func parseDocumentTypes(names []string) ([]model.DocumentType, error) {
	types := make([]model.DocumentType, 0, len(names))
	for _, name := range names {
		t := model.DocumentType(name)
		if !t.IsValid() {
			return nil, fmt.Errorf("unknown document type %q (valid: privacy, tos, terms_and_conditions, terms_of_use)", name)
		}
		types = append(types, t)
	}
	return types, nil
}

// runCrawl executes crawl sessions for every target.
func runCrawl(ctx context.Context, cfg *config.Config, admins []string, logger *slog.Logger) error {
	types, err := parseDocumentTypes(cfg.DocumentTypes)
	if err != nil {
		return err
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; documents will be crawled but not analyzed")
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "dir", cfg.DBDir)

	// LLM providers share an HTTP client with their own generous timeout;
	// analysis responses take longer than page fetches.
	providerClient := &http.Client{Timeout: 2 * time.Minute}
	primary := analyzer.NewGeminiProvider(providerClient, cfg.GeminiAPIKey,
		analyzer.WithGeminiLogger(logger))
	secondary := analyzer.NewGroqProvider(providerClient, cfg.GroqAPIKey,
		analyzer.WithGroqLogger(logger))
	quota := analyzer.NewFallbackQuota(analyzer.WithQuotaLimit(cfg.FallbackDailyLimit))
	orchestrator := analyzer.NewOrchestrator(primary, secondary, quota,
		analyzer.WithOrchestratorLogger(logger))

	authorizer := session.NewStaticAuthorizer(admins...)

	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := crawlTarget(ctx, cfg, db, orchestrator, authorizer, types, target, logger); err != nil {
			logger.Error("crawl failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", target, err)
		}
	}

	return nil
}

// crawlTarget runs one crawl session and outputs its report.
func crawlTarget(ctx context.Context, cfg *config.Config, db *database.DB, orchestrator *analyzer.Orchestrator, authorizer session.Authorizer, types []model.DocumentType, target string, logger *slog.Logger) error {
	fetcher, siteConfig, err := newFetcherForTarget(cfg, target, logger)
	if err != nil {
		return err
	}

	runner := session.NewRunner(db, fetcher, orchestrator, authorizer,
		session.WithMaxPerType(cfg.MaxPerType),
		session.WithFetchConcurrency(cfg.FetchConcurrency),
		session.WithSessionTimeout(cfg.SessionTimeout),
		session.WithIgnorePatterns(siteConfig.IgnorePatterns),
		session.WithRunnerLogger(logger),
	)

	fmt.Printf("Crawling %s...\n", target)
	startTime := time.Now()

	sess, err := runner.Submit(ctx, session.Request{
		UserID:       cfg.UserID,
		URL:          target,
		Types:        types,
		ForceRefresh: cfg.ForceRefresh,
	})
	if err != nil {
		return err
	}

	sess, err = runner.Wait(ctx, sess.ID)
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Session %s finished in %s (%d documents, %d analyzed)\n\n",
		sess.ID, elapsed.Round(time.Millisecond), sess.DocumentCount, sess.AnalyzedCount)

	sessionReport, err := report.Build(ctx, db, sess)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	return outputReport(cfg, sessionReport)
}

// newFetcherForTarget builds a Fetcher carrying the target's site config
// and returns the site config for runner-level settings.
func newFetcherForTarget(cfg *config.Config, target string, logger *slog.Logger) (*crawler.Fetcher, config.SiteConfig, error) {
	normalized, err := normalize.URL(target)
	if err != nil {
		return nil, config.SiteConfig{}, fmt.Errorf("invalid site URL %q: %w", target, err)
	}

	parsed, err := url.Parse(normalized)
	if err != nil {
		return nil, config.SiteConfig{}, fmt.Errorf("invalid site URL %q: %w", target, err)
	}

	siteConfig := cfg.SiteConfigs.GetSiteConfig(parsed.Host)

	opts := []crawler.FetcherOption{
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithFetcherLogger(logger),
	}
	if len(siteConfig.Headers) > 0 {
		opts = append(opts, crawler.WithRequestHeaders(siteConfig.Headers))
	}
	if siteConfig.Cookie != "" {
		opts = append(opts, crawler.WithCookie(siteConfig.Cookie))
	}

	return crawler.NewFetcher(&http.Client{Timeout: cfg.Timeout}, opts...), siteConfig, nil
}

// outputReport outputs the session report in the requested format.
func outputReport(cfg *config.Config, sessionReport *report.SessionReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain extracted document text, so restrict
		// permissions to the owner
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	if cfg.JSONReport {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err := writer.Write(sessionReport)
		return err
	}

	// Markdown output (default)
	writer := report.NewMarkdownWriter(output)
	_, err := writer.Write(sessionReport)
	return err
}

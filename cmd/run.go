package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jobradar/jobradar/internal/connectors"
	"github.com/jobradar/jobradar/internal/logger"
	"github.com/jobradar/jobradar/internal/pipeline"
	"github.com/jobradar/jobradar/internal/retry"
	"github.com/jobradar/jobradar/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptExit            = "Exit"
	PromptExplanations    = "Show detailed explanations"
	PromptReportBySource  = "Report by source"
	PromptResultsToFile   = "Dump results to file"
	defaultCVTextFallback = "Python SQL Docker Airflow Power BI"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Next?",
	Items: []string{PromptExplanations, PromptReportBySource, PromptResultsToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the jobradar matching pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("request", "r", "", "free-text request, e.g. 'stage data analyst à Paris'")
	runCmd.Flags().String("cv", "", "path to the CV text file")
	runCmd.Flags().IntP("top-k", "k", 0, "number of recommendations to return")
	runCmd.Flags().BoolP("no-prompt", "y", false, "print results and exit without the interactive menu")

	viper.BindPFlag("search.request", runCmd.Flags().Lookup("request"))
	viper.BindPFlag("cv.file", runCmd.Flags().Lookup("cv"))
	viper.BindPFlag("search.top-k", runCmd.Flags().Lookup("top-k"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		logFatal("creating a logger", err)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting jobradar", zap.String("version", version))

	if config == nil || config.Search == nil {
		log.Fatal("config with a search section is required")
	}

	request := strings.TrimSpace(config.Search.Request)
	if request == "" {
		log.Fatal("a request is required", zap.String("hint", "set search.request in the config or pass --request"))
	}

	location := config.Search.Location
	if location == "" {
		location = "Paris"
	}

	intent := pipeline.ParseIntent(request, location)
	log.Info("parsed request",
		zap.String("role", intent.Role),
		zap.String("contract", intent.Contract),
		zap.String("location", intent.Location),
	)

	cvText := loadCVText(config, log)

	fetchers, err := prepareFetchers(config, log)
	if err != nil {
		log.Fatal("preparing job sources", zap.Error(err))
	}

	var hints []string
	if config.Country != nil {
		hints = config.Country.Hints
	}

	pipe := pipeline.New(fetchers, log,
		pipeline.WithCountryHints(hints),
		pipeline.WithStrictSources(config.StrictSources),
	)

	topK := config.Search.TopK
	if topK <= 0 {
		topK = 5
	}

	result, err := pipe.RunWithFallbacks(ctx, pipeline.Request{
		CVText:   cvText,
		Role:     intent.Role,
		Contract: intent.Contract,
		Location: intent.Location,
		Limit:    config.Search.Limit,
		TopK:     topK,
	})
	if err != nil {
		log.Fatal("pipeline failed", zap.Error(err))
	}

	if len(result.Recommendations) == 0 {
		log.Info("no usable recommendations",
			zap.Int("pool_size", result.Meta.PoolSize),
			zap.Int("after_country_filter", result.Meta.AfterCountryFilter),
			zap.Int("after_contract_filter", result.Meta.AfterContractFilter),
			zap.Int("graph_edges", result.Meta.GraphSummary.EdgeCount),
			zap.Int("attempts", len(result.Meta.Attempts)),
		)
		return
	}

	printRecommendations(result, intent.Contract)

	if flagTrue(cmd, "no-prompt") {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, result, log); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, result *pipeline.Result, log *zap.Logger) error {
	switch action {
	case PromptExplanations:
		for i, rec := range result.Recommendations {
			fmt.Printf("#%d %s\n%s\n\n", i+1, rec.Explanation.WhyShort, rec.Explanation.WhyLong)
		}
		return nil
	case PromptReportBySource:
		report := make(map[string][]string)
		for _, rec := range result.Recommendations {
			report[rec.Job.Source] = append(report[rec.Job.Source],
				fmt.Sprintf("%s / %s / %.3f", rec.Job.Title, rec.Job.Company, rec.Score))
		}
		pretty, _ := json.MarshalIndent(report, "", "  ")
		log.Info(string(pretty), zap.Int("recommendations", len(result.Recommendations)))
		return nil
	case PromptResultsToFile:
		filename, err := dumpResult(result)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		log.Info("dumping results to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		log.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printRecommendations(result *pipeline.Result, contract string) {
	fmt.Printf("Top %d recommendations (query %q, %s mode):\n\n",
		len(result.Recommendations), result.Meta.QueryUsed, result.Meta.Mode)

	for i, rec := range result.Recommendations {
		badges := make([]string, 0, 2)
		if rec.Job.RoleHit {
			badges = append(badges, "role✓")
		} else {
			badges = append(badges, "role✗")
		}
		if contract != "" {
			if rec.Job.ContractHit {
				badges = append(badges, "contract✓")
			} else {
				badges = append(badges, "contract✗")
			}
		}

		fmt.Printf("#%d %s | %s | %s\n    score=%.3f (base=%.3f bonus=%+.3f) %s\n    %s\n    %s\n",
			i+1, rec.Job.Title, rec.Job.Company, rec.Job.Location,
			rec.Score, rec.BaseScore, rec.Bonus, strings.Join(badges, " "),
			rec.Explanation.WhyShort, rec.Job.URL,
		)
	}
	fmt.Println()
}

func loadCVText(config *Config, log *zap.Logger) string {
	if config.CV != nil {
		if file := strings.TrimSpace(config.CV.File); file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				log.Fatal("reading CV file", zap.String("file", file), zap.Error(err))
			}
			return string(data)
		}
		if text := strings.TrimSpace(config.CV.Text); text != "" {
			return text
		}
	}

	log.Warn("no CV configured, falling back to a built-in skill line",
		zap.String("hint", "set cv.file or cv.text in the configuration file"),
	)
	return defaultCVTextFallback
}

func prepareFetchers(config *Config, log *zap.Logger) ([]connectors.Fetcher, error) {
	names := []string{}
	if config.Search != nil {
		names = config.Search.Sources
	}

	sources, err := connectors.NormalizeSources(names)
	if err != nil {
		return nil, err
	}

	policy := retry.Policy{}
	if config.HTTP != nil {
		policy = retry.Policy{
			MaxAttempts: config.HTTP.MaxRetries,
			Timeout:     config.HTTP.Timeout,
			Backoff:     config.HTTP.Backoff,
		}
	}

	fetchers := make([]connectors.Fetcher, 0, len(sources))
	for _, name := range sources {
		switch name {
		case "adzuna":
			adzuna, err := prepareAdzuna(config, policy, log)
			if err != nil {
				// Partial results beat none: keep going with the open
				// sources and record the reason.
				log.Warn("skipping adzuna source", zap.Error(err))
				continue
			}
			fetchers = append(fetchers, adzuna)
		case "remotive":
			fetchers = append(fetchers, connectors.NewRemotive(policy, log))
		}
	}

	if len(fetchers) == 0 {
		return nil, errors.New("no usable job sources configured")
	}

	return fetchers, nil
}

func prepareAdzuna(config *Config, policy retry.Policy, log *zap.Logger) (*connectors.Adzuna, error) {
	cfg := config.Adzuna
	if cfg == nil {
		cfg = &AdzunaConfig{}
	}

	appID, err := secrets.Load(secrets.Source{
		Name:  "adzuna app id",
		Value: firstNonEmpty(cfg.AppID, viper.GetString("adzuna.app-id")),
		File:  cfg.AppIDFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set adzuna.app-id-file or ADZUNA_APP_ID)", err)
	}

	appKey, err := secrets.Load(secrets.Source{
		Name:  "adzuna app key",
		Value: firstNonEmpty(cfg.AppKey, viper.GetString("adzuna.app-key")),
		File:  cfg.AppKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set adzuna.app-key-file or ADZUNA_APP_KEY)", err)
	}

	return connectors.NewAdzuna(appID, appKey, policy, log)
}

func dumpResult(result *pipeline.Result) (string, error) {
	file, err := os.CreateTemp("", "recommendations_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func flagTrue(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && strings.EqualFold(flag.Value.String(), "true")
}

func logFatal(msg string, err error) {
	log.Fatalf("%s: %s", msg, err)
}

package cmd

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobradar"
)

type Config struct {
	Search        *SearchConfig  `mapstructure:"search"`
	CV            *CVConfig      `mapstructure:"cv"`
	Country       *CountryConfig `mapstructure:"country"`
	HTTP          *HTTPConfig    `mapstructure:"http"`
	Adzuna        *AdzunaConfig  `mapstructure:"adzuna"`
	StrictSources bool           `mapstructure:"strict-sources"`
}

type SearchConfig struct {
	// Request is the free-text ask, e.g. "stage data analyst à Paris".
	Request  string   `mapstructure:"request"`
	Location string   `mapstructure:"location"`
	Sources  []string `mapstructure:"sources"`
	Limit    int      `mapstructure:"limit"`
	TopK     int      `mapstructure:"top-k"`
}

type CVConfig struct {
	File string `mapstructure:"file"`
	Text string `mapstructure:"text"`
}

type CountryConfig struct {
	Hints []string `mapstructure:"hints"`
}

type HTTPConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max-retries"`
	Backoff    time.Duration `mapstructure:"backoff"`
}

type AdzunaConfig struct {
	AppID      string `mapstructure:"app-id"`
	AppKey     string `mapstructure:"app-key"`
	AppIDFile  string `mapstructure:"app-id-file"`
	AppKeyFile string `mapstructure:"app-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobradar matches a CV against job-board postings and explains the ranking",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("adzuna.app-id", "ADZUNA_APP_ID"); err != nil {
		log.Fatalf("binding ADZUNA_APP_ID environment variable: %v", err)
	}
	if err := viper.BindEnv("adzuna.app-key", "ADZUNA_APP_KEY"); err != nil {
		log.Fatalf("binding ADZUNA_APP_KEY environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobradar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the run command. If there is no config, we can
	// skip initialization.
	if runCmd.CalledAs() == "" {
		return
	}

	// Adzuna credentials usually live in a .env next to the config. Missing
	// file is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

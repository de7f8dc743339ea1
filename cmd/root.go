package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hireflow/internal/notify"
	"hireflow/internal/pipeline"
)

const (
	app = "hireflow"
)

type Config struct {
	// BaseURL is the public URL interview links are built against.
	BaseURL    string               `mapstructure:"base-url"`
	Storage    *StorageConfig       `mapstructure:"storage"`
	Thresholds *pipeline.Thresholds `mapstructure:"thresholds"`
	Interview  *InterviewConfig     `mapstructure:"interview"`
	AI         *AIConfig            `mapstructure:"ai"`
	Matching   *MatchingConfig      `mapstructure:"matching"`
	Sandbox    *SandboxConfig       `mapstructure:"sandbox"`
	SMTP       *notify.SMTPConfig   `mapstructure:"smtp"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type InterviewConfig struct {
	Technical  int `mapstructure:"technical"`
	Behavioral int `mapstructure:"behavioral"`
	Coding     int `mapstructure:"coding"`
	ExpiryDays int `mapstructure:"expiry-days"`
}

type AIConfig struct {
	Provider   string        `mapstructure:"provider"`
	MaxRetries int           `mapstructure:"max-retries"`
	Groq       *GroqConfig   `mapstructure:"groq"`
	Gemini     *GeminiConfig `mapstructure:"gemini"`
}

type GroqConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	DegradedModel  string `mapstructure:"degraded-model"`
	TimeoutSeconds int    `mapstructure:"timeout-seconds"`
}

type GeminiConfig struct {
	APIKeyFile    string `mapstructure:"api-key-file"`
	Model         string `mapstructure:"model"`
	DegradedModel string `mapstructure:"degraded-model"`
}

type MatchingConfig struct {
	URL        string `mapstructure:"url"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

// SandboxConfig points at a Judge0-compatible code execution API.
type SandboxConfig struct {
	Host       string `mapstructure:"host"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hireflow screens applications, runs AI-assisted interviews, and moves candidates through the hiring funnel",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("storage.path", "HIREFLOW_DB"); err != nil {
		log.Fatalf("binding HIREFLOW_DB environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hireflow.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Only serve and review need the config file.
	if serveCmd.CalledAs() == "" && reviewCmd.CalledAs() == "" {
		return
	}

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

	if config == nil {
		config = &Config{}
	}
	if config.Storage == nil {
		config.Storage = &StorageConfig{}
	}
	if config.Storage.Path == "" {
		config.Storage.Path = app + ".db"
	}
	if config.Thresholds == nil {
		th := pipeline.DefaultThresholds()
		config.Thresholds = &th
	} else {
		def := pipeline.DefaultThresholds()
		if config.Thresholds.AutoReject == 0 {
			config.Thresholds.AutoReject = def.AutoReject
		}
		if config.Thresholds.Shortlist == 0 {
			config.Thresholds.Shortlist = def.Shortlist
		}
		if config.Thresholds.HRQualify == 0 {
			config.Thresholds.HRQualify = def.HRQualify
		}
	}

	return config, nil
}

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"queryd/internal/config"
)

const envPrefix = "QUERYD"

// buildRootCmd constructs the queryd command. Flags are bound to v so that
// QUERYD_* environment variables fill in anything not given on the command line.
func buildRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "queryd",
		Short:         "Forward text to a local language model over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(v)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}

	f := root.Flags()
	f.String("config", "", "Path to a config file (.yaml, .yml, .json or .toml)")
	f.String("addr", config.DefaultAddr, "HTTP listen address")
	f.String("backend", config.DefaultBackend, "Inference backend: ollama|openai|llama")
	f.String("runtime-url", config.DefaultRuntimeURL, "Base URL of the model runtime (also OLLAMA_HOST)")
	f.String("model", config.DefaultModel, "Model identifier used for every request (also OLLAMA_MODEL)")
	f.String("api-key", "", "API key sent to OpenAI-compatible runtimes")
	f.String("model-path", "", "gguf model file for the llama backend")
	f.Int("llama-ctx", 0, "Context size for the llama backend (0 = library default)")
	f.Int("llama-threads", 0, "Threads for the llama backend (0 = library default)")
	f.Int("request-timeout", config.DefaultRequestTimeoutSec, "Seconds allowed for one model call (negative disables)")
	f.Int64("max-body-bytes", config.DefaultMaxBodyBytes, "Maximum request body size in bytes")
	f.Bool("cors", true, "Enable CORS (--cors=false turns it off)")
	f.String("cors-origins", "*", "Comma-separated list of allowed CORS origins")
	f.String("log-level", config.DefaultLogLevel, "Log level: debug|info|warn|error")
	f.String("log-format", config.DefaultLogFormat, "Log format: console|json")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(f)
	_ = v.BindEnv("runtime-url", envPrefix+"_RUNTIME_URL", "OLLAMA_HOST")
	_ = v.BindEnv("model", envPrefix+"_MODEL", "OLLAMA_MODEL")
	return root
}

// resolveConfig layers flags over environment over the config file over
// built-in defaults, then validates the result.
func resolveConfig(v *viper.Viper) (config.Config, error) {
	var cfg config.Config
	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setInt := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	setString("addr", &cfg.Addr)
	setString("backend", &cfg.Backend)
	setString("runtime-url", &cfg.RuntimeURL)
	setString("model", &cfg.Model)
	setString("api-key", &cfg.APIKey)
	setString("model-path", &cfg.ModelPath)
	setString("log-level", &cfg.LogLevel)
	setString("log-format", &cfg.LogFormat)
	setInt("llama-ctx", &cfg.LlamaCtx)
	setInt("llama-threads", &cfg.LlamaThreads)
	setInt("request-timeout", &cfg.RequestTimeoutSec)
	if v.IsSet("max-body-bytes") {
		cfg.MaxBodyBytes = v.GetInt64("max-body-bytes")
	}
	if v.IsSet("cors") {
		on := v.GetBool("cors")
		cfg.CORSEnabled = &on
	}
	if v.IsSet("cors-origins") {
		cfg.CORSOrigins = splitCSV(v.GetString("cors-origins"))
	}

	cfg.RuntimeURL = withScheme(cfg.RuntimeURL)
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// withScheme accepts OLLAMA_HOST style values such as "127.0.0.1:11434".
func withScheme(u string) string {
	u = strings.TrimSpace(u)
	if u == "" || strings.Contains(u, "://") {
		return u
	}
	return "http://" + u
}

// splitCSV splits a comma-separated list, trimming blanks and dropping empties.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newLogger(cfg config.Config, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	out := w
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

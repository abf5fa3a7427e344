package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/raysh454/spectre/internal/app"
	"github.com/raysh454/spectre/internal/demobackend"
	"github.com/raysh454/spectre/internal/logging"
)

var Version = "0.1.0"

const (
	keyDemoPort    = "demo.port"
	keyDemoLatency = "demo.latency"
)

// NewRootCmd builds the spectre command tree around its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "spectre",
		Short:         "Spectre recon dashboard",
		Long:          "Spectre serves the reconnaissance dashboard: scan forms, live results and downloadable reports backed by a scan service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return readConfigFile(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./spectre.yaml or ~/.config/spectre/spectre.yaml)")
	root.PersistentFlags().String("log-level", app.DefaultConfig().LogLevel, "Log level: debug, info, warn, error")
	bindFlag(v, app.KeyLogLevel, root.PersistentFlags().Lookup("log-level"))

	// Environment variable support (SPECTRE_BACKEND, SPECTRE_DEMO_PORT, etc.)
	v.SetEnvPrefix("SPECTRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	app.SetDefaults(v)
	v.SetDefault(keyDemoPort, demobackend.DefaultConfig().Port)
	v.SetDefault(keyDemoLatency, demobackend.DefaultConfig().Latency)

	root.AddCommand(newServeCmd(v))
	root.AddCommand(newConfigCmd(v))
	root.AddCommand(newDemoBackendCmd(v))
	root.AddCommand(newVersionCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bindFlag(v *viper.Viper, key string, f *pflag.Flag) {
	_ = v.BindPFlag(key, f)
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("spectre")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "spectre"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func newLogger(level string) logging.Logger {
	return logging.NewStdoutLogger("spectre").SetLevel(logging.ParseLevel(level))
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	d := app.DefaultConfig()
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the dashboard",
		Example: "spectre serve --listen :8080 --backend http://127.0.0.1:5000",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.Load(v)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)

			a, err := app.NewApplication(cfg, logger)
			if err != nil {
				return err
			}
			printBanner(cmd.OutOrStdout(), Version, cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}

	cmd.Flags().String("listen", d.Listen, "HTTP listen address")
	cmd.Flags().String("backend", d.Backend, "Base URL of the scan service")
	cmd.Flags().Duration("backend-timeout", d.BackendTimeout, "Timeout of one scan request")
	cmd.Flags().String("storage-root", d.StorageRoot, "Directory holding the report ledger")
	cmd.Flags().Duration("session-ttl", d.SessionTTL, "Evict page sessions idle for this long")
	cmd.Flags().Int("max-sessions", d.MaxSessions, "Maximum live page sessions")
	bindServerFlags(v, cmd.Flags())
	return cmd
}

func bindServerFlags(v *viper.Viper, fs *pflag.FlagSet) {
	bindFlag(v, app.KeyListen, fs.Lookup("listen"))
	bindFlag(v, app.KeyBackend, fs.Lookup("backend"))
	bindFlag(v, app.KeyBackendTimeout, fs.Lookup("backend-timeout"))
	bindFlag(v, app.KeyStorageRoot, fs.Lookup("storage-root"))
	bindFlag(v, app.KeySessionTTL, fs.Lookup("session-ttl"))
	bindFlag(v, app.KeyMaxSessions, fs.Lookup("max-sessions"))
}

func newConfigCmd(v *viper.Viper) *cobra.Command {
	d := app.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.Load(v)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", app.KeyListen, cfg.Listen)
			fmt.Fprintf(out, "%s: %s\n", app.KeyBackend, cfg.Backend)
			fmt.Fprintf(out, "%s: %s\n", app.KeyBackendTimeout, cfg.BackendTimeout)
			fmt.Fprintf(out, "%s: %s\n", app.KeyStorageRoot, cfg.StorageRoot)
			fmt.Fprintf(out, "%s: %s\n", app.KeySessionTTL, cfg.SessionTTL)
			fmt.Fprintf(out, "%s: %d\n", app.KeyMaxSessions, cfg.MaxSessions)
			fmt.Fprintf(out, "%s: %s\n", app.KeyLogLevel, cfg.LogLevel)
			if used := v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(out, "# from %s\n", used)
			}
			return nil
		},
	}
	cmd.Flags().String("listen", d.Listen, "HTTP listen address")
	cmd.Flags().String("backend", d.Backend, "Base URL of the scan service")
	cmd.Flags().Duration("backend-timeout", d.BackendTimeout, "Timeout of one scan request")
	cmd.Flags().String("storage-root", d.StorageRoot, "Directory holding the report ledger")
	cmd.Flags().Duration("session-ttl", d.SessionTTL, "Evict page sessions idle for this long")
	cmd.Flags().Int("max-sessions", d.MaxSessions, "Maximum live page sessions")
	// Bound on run: both serve and config own flags for the same keys, and
	// the last BindPFlag for a key wins.
	cmd.PreRun = func(cmd *cobra.Command, _ []string) { bindServerFlags(v, cmd.Flags()) }
	return cmd
}

func newDemoBackendCmd(v *viper.Viper) *cobra.Command {
	d := demobackend.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "demo-backend",
		Short: "Run a stand-in scan service with canned results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := demobackend.Config{
				Port:    v.GetInt(keyDemoPort),
				Latency: v.GetDuration(keyDemoLatency),
			}
			if cfg.Port < 1 || cfg.Port > 65535 {
				return fmt.Errorf("invalid port: %d", cfg.Port)
			}
			logger := newLogger(v.GetString(app.KeyLogLevel)).With(logging.Field{Key: "component", Value: "demobackend"})
			fmt.Fprintf(cmd.OutOrStdout(), "Demo backend on http://localhost:%d (latency %s)\n", cfg.Port, cfg.Latency)
			return demobackend.NewDemoBackend(cfg, logger).Start()
		},
	}
	cmd.Flags().Int("port", d.Port, "Port to listen on")
	cmd.Flags().Duration("latency", d.Latency, "Delay before each scan answers")
	bindFlag(v, keyDemoPort, cmd.Flags().Lookup("port"))
	bindFlag(v, keyDemoLatency, cmd.Flags().Lookup("latency"))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spectre %s\n", Version)
		},
	}
}


package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aweris/namestore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "namestore",
	Short:         "Named content-addressable store CLI",
	Long:          "Store text under names; identical content is kept once, keyed by its SHA-256.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/namestore/config.yaml)")
	rootCmd.PersistentFlags().String("root", "", "store directory (default: ~/.local/share/namestore)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("NAMESTORE")
	viper.AutomaticEnv()
	viper.SetDefault("root", defaultRootDir())
	viper.SetDefault("cache_size", 128)
	viper.SetDefault("compression_level", 0)
	viper.SetDefault("concurrency", namestore.DefaultConcurrency)
	viper.SetDefault("log_level", "warn")

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "namestore")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "namestore")
	}
	return ".namestore"
}

func defaultRootDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "namestore")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "namestore")
	}
	return ".namestore"
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelWarn
	}
	return l
}

// openStore opens the configured store, logging to the command's stderr.
func openStore(cmd *cobra.Command) (*namestore.Store, error) {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: parseLevel(viper.GetString("log_level")),
	}))

	opts := []namestore.Option{
		namestore.WithLogger(logger),
		namestore.WithCacheSize(viper.GetInt("cache_size")),
		namestore.WithConcurrency(viper.GetInt("concurrency")),
	}
	if level := viper.GetInt("compression_level"); level > 0 {
		opts = append(opts, namestore.WithCompression(level))
	}

	return namestore.Open(viper.GetString("root"), opts...)
}

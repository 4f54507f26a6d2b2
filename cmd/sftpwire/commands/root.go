// Package commands implements the sftpwire CLI.
package commands

import (
	"fmt"
	"strings"

	"github.com/marmos91/sftpbridge/internal/cli/output"
	"github.com/marmos91/sftpbridge/internal/logger"
	"github.com/marmos91/sftpbridge/pkg/attrcache"
	"github.com/marmos91/sftpbridge/pkg/codec"
	"github.com/marmos91/sftpbridge/pkg/config"
	"github.com/marmos91/sftpbridge/pkg/metrics"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile      string
	outputFormat string
	logLevel     string
)

// state built by the root command before any subcommand runs.
var (
	cfg   *config.Config
	cache attrcache.Cache
	cdc   *codec.Codec
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sftpwire",
	Short: "Inspect and produce SFTP wire records",
	Long: `sftpwire decodes and encodes the SFTP records used by sftpbridge:
ATTRS, STATUS, statvfs replies, VERSION and extension payloads.

Payloads are given as hex strings. Whitespace and a leading 0x are ignored.

Use "sftpwire [command] --help" for more information about a command.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/sftpbridge/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(flagsCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(statvfsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = strings.ToUpper(logLevel)
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	cache, err = attrcache.New(attrcache.Config{
		Type:       cfg.Cache.Type,
		Path:       cfg.Cache.Path,
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
		Metrics:    metrics.NewCacheMetrics(),
	})
	if err != nil {
		return fmt.Errorf("failed to open attribute cache: %w", err)
	}

	cdc = codec.New(codec.Options{
		MaxPacketSize:  cfg.Codec.MaxPacketSize.Int(),
		DecodeMetadata: cfg.Codec.DecodeMetadata,
		Metrics:        metrics.NewCodecMetrics(),
		Cache:          cache,
	})
	logger.Debug("codec ready",
		logger.Size(uint64(cfg.Codec.MaxPacketSize)),
		logger.Backend(cfg.Cache.Type))
	return nil
}

func teardown() error {
	if cache == nil {
		return nil
	}
	err := cache.Close()
	cache = nil
	return err
}

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// printer returns a Printer for the command's output and the --output flag.
func printer(cmd *cobra.Command) (*output.Printer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(cmd.OutOrStdout(), format), nil
}

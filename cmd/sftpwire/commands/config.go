package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/marmos91/sftpbridge/internal/cli/output"
	"github.com/marmos91/sftpbridge/internal/cli/prompt"
	"github.com/marmos91/sftpbridge/pkg/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Manage the sftpbridge configuration file.

Subcommands:
  init      Write a configuration file with the defaults
  show      Display the effective configuration
  schema    Generate a JSON schema for the configuration file`,
}

var (
	configInitForce       bool
	configInitInteractive bool
	configSchemaFile      string
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Long: `Write a configuration file with the defaults.

By default the file is created at $XDG_CONFIG_HOME/sftpbridge/config.yaml.
Use --config to choose another path. With --interactive the cache and
metrics settings are asked for on the terminal.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the configuration after the file, SFTPBRIDGE_* environment
variables and defaults are merged. Prints YAML unless --output json.`,
	RunE: runConfigShow,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schema for configuration",
	Long: `Generate a JSON schema for the sftpbridge configuration file.

The schema can be used for IDE autocompletion and to validate a
configuration file before loading it.

Examples:
  # Print schema to stdout
  sftpwire config schema

  # Save schema to file
  sftpwire config schema --file config.schema.json`,
	RunE: runConfigSchema,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Force overwrite existing config file")
	configInitCmd.Flags().BoolVarP(&configInitInteractive, "interactive", "i", false, "Ask for settings interactively")
	configSchemaCmd.Flags().StringVarP(&configSchemaFile, "file", "f", "", "Output file (default: stdout)")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSchemaCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		if !configInitInteractive && !configInitForce {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
		ok, err := prompt.ConfirmWithForce(fmt.Sprintf("Overwrite %s?", path), configInitForce)
		if err != nil {
			return err
		}
		if !ok {
			return prompt.ErrAborted
		}
	}

	c := config.GetDefaultConfig()
	if configInitInteractive {
		if err := askConfig(c); err != nil {
			return err
		}
	}
	if err := config.Validate(c); err != nil {
		return err
	}

	if err := config.SaveConfig(c, path); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
	return nil
}

// askConfig fills the cache and metrics sections from the terminal.
func askConfig(c *config.Config) error {
	typ, err := prompt.Select("Attribute cache", []prompt.Option{
		{Label: "memory", Value: config.CacheMemory, Description: "In-process, lost on exit"},
		{Label: "badger", Value: config.CacheBadger, Description: "Persistent BadgerDB directory"},
		{Label: "none", Value: config.CacheNone, Description: "No caching"},
	}, c.Cache.Type)
	if err != nil {
		return err
	}
	c.Cache.Type = typ

	if typ == config.CacheBadger {
		c.Cache.Path, err = prompt.Input("Cache directory", c.Cache.Path, func(s string) error {
			if s == "" {
				return errors.New("a directory is required")
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	c.Metrics.Enabled, err = prompt.Confirm("Enable Prometheus metrics", c.Metrics.Enabled)
	if err != nil {
		return err
	}
	if c.Metrics.Enabled {
		c.Metrics.Port, err = prompt.InputPort("Metrics port", c.Metrics.Port)
		if err != nil {
			return err
		}
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == output.FormatJSON {
		return output.PrintJSON(cmd.OutOrStdout(), cfg)
	}
	return output.PrintYAML(cmd.OutOrStdout(), cfg)
}

func runConfigSchema(cmd *cobra.Command, args []string) error {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		FieldNameTag:              "yaml",
	}

	schema := reflector.Reflect(&config.Config{})
	schema.Version = "https://json-schema.org/draft/2020-12/schema"
	schema.Title = "sftpbridge Configuration"
	schema.Description = "Configuration schema for the sftpwire tool"

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if configSchemaFile != "" {
		if err := os.WriteFile(configSchemaFile, schemaJSON, 0o644); err != nil {
			return fmt.Errorf("failed to write schema file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "JSON schema written to %s\n", configSchemaFile)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(schemaJSON))
	return nil
}

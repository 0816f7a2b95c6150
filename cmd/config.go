package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benchscan/benchscan/config"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Long: `Show or manage configuration.

When run without arguments, shows the current merged configuration.

Subcommands:
  init  Create a minimal config file
  path  Show config file locations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	cmd.AddCommand(NewCmdConfigInit())
	cmd.AddCommand(NewCmdConfigPath())

	return cmd
}

// NewCmdConfigInit creates the config init subcommand.
func NewCmdConfigInit() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a minimal config file",
		Long: `Create a minimal config file with starter settings.

By default the file is created globally in the user config directory.
Use --local to create ./` + config.LocalConfigPath() + ` instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(local)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Create config in the current directory")
	return cmd
}

// NewCmdConfigPath creates the config path subcommand.
func NewCmdConfigPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPath()
		},
	}
}

func runConfigShow(format string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "yaml":
		out, err := cfg.ToYAML()
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

func runConfigInit(local bool) error {
	path := config.ConfigPath()
	if local {
		path = config.LocalConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := config.SaveTo(path, config.MinimalConfig()); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	return nil
}

func runConfigPath() error {
	info := config.GetConfigPaths()

	status := func(exists bool) string {
		if exists {
			return "exists"
		}
		return "not found"
	}

	fmt.Printf("Global: %s (%s)\n", info.GlobalPath, status(info.GlobalExists))
	fmt.Printf("Local:  %s (%s)\n", info.LocalPath, status(info.LocalExists))
	return nil
}

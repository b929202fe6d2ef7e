// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"amqbench-cli/internal/config"
	"amqbench-cli/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `amqbench config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage amqbench configuration",
		Long: `Manage amqbench configuration.

Configuration is stored in:
  - Linux: ~/.config/amqbench/config.cue
  - macOS: ~/Library/Application Support/amqbench/config.cue
  - Windows: %APPDATA%\amqbench\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Get(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context) error {
	cfg, err := config.Get(ctx)
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(headerStyle.Render("Current Configuration"))
	fmt.Println()

	if path := config.ResolvedPath(); path != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s:\n", keyStyle.Render("build_tool"))
	bin := cfg.BuildTool.Bin
	if bin == "" {
		bin = "cargo (from PATH)"
	}
	fmt.Printf("  bin: %s\n", valueStyle.Render(bin))
	manifestDir := cfg.BuildTool.ManifestDir
	if manifestDir == "" {
		manifestDir = "(current directory)"
	}
	fmt.Printf("  manifest_dir: %s\n", valueStyle.Render(manifestDir))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("run"))
	fmt.Printf("  cooldown: %s\n", valueStyle.Render(string(cfg.Run.Cooldown)))
	fmt.Printf("  plotting_backend: %s\n", valueStyle.Render(string(cfg.Run.PlottingBackend)))
	fmt.Printf("  variants: %s\n", valueStyle.Render(strings.Join(cfg.Run.Variants, ", ")))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("harnesses"))
	if len(cfg.Harnesses) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(built-in definitions)"))
	} else {
		for name, h := range cfg.Harnesses {
			fmt.Printf("  - %s", valueStyle.Render(name))
			if h.Target != "" {
				fmt.Printf(" (target: %s)", valueStyle.Render(h.Target))
			}
			fmt.Println()
		}
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("broker"))
	fmt.Printf("  provision: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Broker.Provision)))
	fmt.Printf("  image: %s\n", valueStyle.Render(cfg.Broker.Image))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n",
		SuccessStyle.Render("✓"), filepath.Join(cfgDir, "config.cue"))
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, "config.cue"))
	return nil
}

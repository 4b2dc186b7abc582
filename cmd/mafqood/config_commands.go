package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mafqood/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolvedPath, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if ctx.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), configView(cfg, resolvedPath, exists))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path:   %s\n", resolvedPath)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Environment:   %s\n", cfg.Backend.Environment)
			fmt.Fprintf(out, "Base URL:      %s\n", cfg.BaseURL())
			fmt.Fprintf(out, "Field naming:  %s\n", cfg.Backend.FieldNaming)
			fmt.Fprintf(out, "Timeout:       %s\n", cfg.RequestTimeout())
			fmt.Fprintf(out, "Data dir:      %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "Log dir:       %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "Log format:    %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log level:     %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

type configShowView struct {
	Path        string `json:"path"`
	Exists      bool   `json:"exists"`
	Environment string `json:"environment"`
	BaseURL     string `json:"base_url"`
	FieldNaming string `json:"field_naming"`
	Timeout     string `json:"timeout"`
	DataDir     string `json:"data_dir"`
	LogDir      string `json:"log_dir"`
	LogFormat   string `json:"log_format"`
	LogLevel    string `json:"log_level"`
}

func configView(cfg *config.Config, path string, exists bool) configShowView {
	return configShowView{
		Path:        path,
		Exists:      exists,
		Environment: cfg.Backend.Environment,
		BaseURL:     cfg.BaseURL(),
		FieldNaming: cfg.Backend.FieldNaming,
		Timeout:     cfg.RequestTimeout().String(),
		DataDir:     cfg.Paths.DataDir,
		LogDir:      cfg.Paths.LogDir,
		LogFormat:   cfg.Logging.Format,
		LogLevel:    cfg.Logging.Level,
	}
}

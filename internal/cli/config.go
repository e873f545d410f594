package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/gdw/internal/model"
	"github.com/piwi3910/gdw/internal/project"
)

// newConfigCmd creates the config management command.
func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and manage the gdw config file",
	}

	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigInitCmd(g))
	cmd.AddCommand(newConfigPathCmd(g))
	cmd.AddCommand(newConfigExportCmd(g))
	cmd.AddCommand(newConfigImportCmd(g))

	return cmd
}

func newConfigShowCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(g.configPath)
			if err != nil {
				return err
			}
			data, err := project.EncodeAppConfig(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCmd(g *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(g.configPath); err == nil && !force {
				return fmt.Errorf("config %s already exists (use --force to overwrite)", g.configPath)
			}
			if err := project.SaveAppConfig(g.configPath, model.DefaultAppConfig()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			loggerFromContext(cmd.Context()).Info("Wrote config", "path", g.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func newConfigPathCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), g.configPath)
			return nil
		},
	}
}

func newConfigExportCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Back up the config and custom wafer profiles to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, profiles, err := g.load()
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, profiles); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("Exported config", "path", args[0], "profiles", len(profiles))
			return nil
		},
	}
}

func newConfigImportCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore the config and custom wafer profiles from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(g.configPath, backup.Config); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			if err := project.SaveCustomProfiles(g.profilesPath(), backup.Profiles); err != nil {
				return fmt.Errorf("write profiles: %w", err)
			}
			loggerFromContext(cmd.Context()).Info("Imported config", "version", backup.Version,
				"created", backup.CreatedAt, "profiles", len(backup.Profiles))
			return nil
		},
	}
}

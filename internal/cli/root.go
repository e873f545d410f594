package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/gdw/internal/model"
	"github.com/piwi3910/gdw/internal/project"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// Values are normally injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
}

// profilesPath keeps custom profiles next to the config file.
func (g *globalOptions) profilesPath() string {
	return filepath.Join(filepath.Dir(g.configPath), filepath.Base(project.DefaultProfilesPath()))
}

// load reads the config file and the custom wafer profiles.
func (g *globalOptions) load() (model.AppConfig, []model.WaferProfile, error) {
	cfg, err := project.LoadAppConfig(g.configPath)
	if err != nil {
		return model.AppConfig{}, nil, err
	}
	profiles, err := project.LoadCustomProfiles(g.profilesPath())
	if err != nil {
		return model.AppConfig{}, nil, fmt.Errorf("load profiles: %w", err)
	}
	return cfg, profiles, nil
}

// Execute runs the gdw CLI with the given context and returns an error if
// any command fails.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "gdw",
		Short: "gdw computes gross die per wafer",
		Long: `gdw lays a rectangular die grid over a round wafer with an optional flat,
classifies every die against the wafer edge, the flat, the exclusion zones and
an optional scribe keep-out line, and finds the grid alignment that yields the
most usable die.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := contextWithLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), g.verbose))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("gdw %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&g.configPath, "config", project.DefaultConfigPath(), "config file")

	root.AddCommand(newRunCmd(g))
	root.AddCommand(newMaxCmd(g))
	root.AddCommand(newCompareCmd(g))
	root.AddCommand(newBatchCmd(g))
	root.AddCommand(newConfigCmd(g))
	root.AddCommand(newProfilesCmd(g))

	return root
}

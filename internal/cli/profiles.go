package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/gdw/internal/model"
	"github.com/piwi3910/gdw/internal/project"
)

var errBuiltInProfile = errors.New("built-in profiles cannot be changed")

// newProfilesCmd creates the wafer profile management command.
func newProfilesCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List and manage wafer profiles",
	}

	cmd.AddCommand(newProfilesListCmd(g))
	cmd.AddCommand(newProfilesAddCmd(g))
	cmd.AddCommand(newProfilesRemoveCmd(g))

	return cmd
}

func newProfilesListCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom wafer profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			custom, err := project.LoadCustomProfiles(g.profilesPath())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-14s %8s %6s %6s %7s  %-8s %s\n", "Name", "Dia", "Excl", "Flat", "North", "Source", "Description")
			all := append(append([]model.WaferProfile{}, custom...), model.WaferProfiles...)
			for _, p := range all {
				source := "custom"
				if p.IsBuiltIn {
					source = "built-in"
				}
				north := "-"
				if p.NorthLimit != nil {
					north = fmt.Sprintf("%g", *p.NorthLimit)
				}
				fmt.Fprintf(out, "%-14s %8g %6g %6g %7s  %-8s %s\n",
					p.Name, p.Diameter, p.EdgeExclusion, p.FlatExclusion, north, source, p.Description)
			}
			return nil
		},
	}
}

func newProfilesAddCmd(g *globalOptions) *cobra.Command {
	var (
		profile    model.WaferProfile
		northLimit float64
	)

	cmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add or replace a custom wafer profile",
		Example: `  gdw profiles add GaAs-100 --dia 100 --excl 7 --flat-excl 4`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile.Name = strings.TrimSpace(args[0])
			if isBuiltInName(profile.Name) {
				return fmt.Errorf("%w: %s", errBuiltInProfile, profile.Name)
			}
			if cmd.Flags().Changed("north-limit") {
				profile.NorthLimit = model.Float(northLimit)
			}
			params := model.NewWaferParams(1, 1, 0)
			profile.Apply(&params)
			if err := params.Validate(); err != nil {
				return err
			}

			path := g.profilesPath()
			profiles, err := project.LoadCustomProfiles(path)
			if err != nil {
				return err
			}
			if err := project.SaveCustomProfiles(path, project.UpsertProfile(profiles, profile)); err != nil {
				return fmt.Errorf("write profiles: %w", err)
			}
			loggerFromContext(cmd.Context()).Info("Saved profile", "name", profile.Name, "path", path)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&profile.Diameter, "dia", 150, "wafer diameter in mm")
	f.Float64Var(&profile.EdgeExclusion, "excl", model.DefaultEdgeExclusion, "edge exclusion in mm")
	f.Float64Var(&profile.FlatExclusion, "flat-excl", model.DefaultFlatExclusion, "flat exclusion in mm")
	f.Float64Var(&northLimit, "north-limit", 0, "scribe keep-out line in mm above the wafer center")
	f.StringVar(&profile.Description, "description", "", "free-form description")

	return cmd
}

func newProfilesRemoveCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a custom wafer profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isBuiltInName(args[0]) {
				return fmt.Errorf("%w: %s", errBuiltInProfile, args[0])
			}
			path := g.profilesPath()
			profiles, err := project.LoadCustomProfiles(path)
			if err != nil {
				return err
			}
			profiles, ok := project.RemoveProfile(profiles, args[0])
			if !ok {
				return fmt.Errorf("no custom profile named %q", args[0])
			}
			if err := project.SaveCustomProfiles(path, profiles); err != nil {
				return fmt.Errorf("write profiles: %w", err)
			}
			loggerFromContext(cmd.Context()).Info("Removed profile", "name", args[0])
			return nil
		},
	}
}

func isBuiltInName(name string) bool {
	for _, p := range model.WaferProfiles {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

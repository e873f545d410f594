package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/gdw/internal/model"
)

// profileFile is the on-disk layout: one [[profile]] table per entry.
type profileFile struct {
	Profiles []model.WaferProfile `toml:"profile"`
}

// DefaultProfilesPath returns the default file path for custom wafer profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.toml")
}

func writeProfiles(path string, profiles []model.WaferProfile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(profileFile{Profiles: profiles}); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	return f.Close()
}

func readProfiles(path string) ([]model.WaferProfile, error) {
	var file profileFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, err
	}
	// Ensure loaded profiles are not marked as built-in
	for i := range file.Profiles {
		file.Profiles[i].IsBuiltIn = false
	}
	return file.Profiles, nil
}

// SaveCustomProfiles saves custom wafer profiles to a TOML file.
func SaveCustomProfiles(path string, profiles []model.WaferProfile) error {
	return writeProfiles(path, profiles)
}

// LoadCustomProfiles loads custom wafer profiles from a TOML file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.WaferProfile, error) {
	profiles, err := readProfiles(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.WaferProfile{}, nil
		}
		return nil, err
	}
	if profiles == nil {
		profiles = []model.WaferProfile{}
	}
	for _, p := range profiles {
		if p.Name == "" {
			return nil, errors.New("custom profile has no name")
		}
	}
	return profiles, nil
}

// ExportProfile exports a single profile to a TOML file (for sharing).
func ExportProfile(path string, profile model.WaferProfile) error {
	profile.IsBuiltIn = false
	return writeProfiles(path, []model.WaferProfile{profile})
}

// ImportProfile imports the first profile from a TOML file.
func ImportProfile(path string) (model.WaferProfile, error) {
	profiles, err := readProfiles(path)
	if err != nil {
		return model.WaferProfile{}, err
	}
	if len(profiles) == 0 {
		return model.WaferProfile{}, errors.New("profile file contains no profile")
	}
	profile := profiles[0]
	if profile.Name == "" {
		return model.WaferProfile{}, errors.New("imported profile has no name")
	}
	return profile, nil
}

// UpsertProfile replaces the profile with the same (case-insensitive) name
// or appends it.
func UpsertProfile(profiles []model.WaferProfile, profile model.WaferProfile) []model.WaferProfile {
	profile.IsBuiltIn = false
	for i, p := range profiles {
		if equalFold(p.Name, profile.Name) {
			profiles[i] = profile
			return profiles
		}
	}
	return append(profiles, profile)
}

// RemoveProfile drops the named profile, reporting whether it was present.
func RemoveProfile(profiles []model.WaferProfile, name string) ([]model.WaferProfile, bool) {
	for i, p := range profiles {
		if equalFold(p.Name, name) {
			return append(profiles[:i], profiles[i+1:]...), true
		}
	}
	return profiles, false
}

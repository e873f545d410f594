package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/gdw/internal/model"
)

// BackupVersion is written to every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application
// data: the config plus the custom wafer profiles.
type BackupData struct {
	Version   string               `toml:"version"`
	CreatedAt string               `toml:"created_at"`
	Config    model.AppConfig      `toml:"config"`
	Profiles  []model.WaferProfile `toml:"profile"`
}

// ExportAllData writes the config and custom profiles to a single TOML file.
func ExportAllData(exportPath string, config model.AppConfig, profiles []model.WaferProfile) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Profiles:  profiles,
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(exportPath)
	if err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(backup); err != nil {
		f.Close()
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup file and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	backup := BackupData{Config: model.DefaultAppConfig()}
	if _, err := toml.DecodeFile(importPath, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if _, err := backup.Config.OffsetPair(); err != nil {
		return BackupData{}, fmt.Errorf("invalid backup file: %w", err)
	}
	for i := range backup.Profiles {
		backup.Profiles[i].IsBuiltIn = false
	}
	if backup.Profiles == nil {
		backup.Profiles = []model.WaferProfile{}
	}
	return backup, nil
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

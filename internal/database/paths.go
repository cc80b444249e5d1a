package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	AppDirName       = ".depot-router"
	SQLiteDBFileName = "runs.db"
	OutputDirName    = "output"
)

// GetAppDir returns ~/.depot-router, creating it if needed
func GetAppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	appDir := filepath.Join(homeDir, AppDirName)
	if err := os.MkdirAll(appDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create app directory: %w", err)
	}

	return appDir, nil
}

// GetDBPath returns ~/.depot-router/runs.db
func GetDBPath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, SQLiteDBFileName), nil
}

// GetOutputDir returns ~/.depot-router/output, creating it if needed
func GetOutputDir() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}

	outputDir := filepath.Join(appDir, OutputDirName)
	if err := os.MkdirAll(outputDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	return outputDir, nil
}

// ResolveDBPath returns override when set, otherwise the default database path
func ResolveDBPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return GetDBPath()
}

// IsJSONPath reports whether path selects the JSON file store instead of SQLite
func IsJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

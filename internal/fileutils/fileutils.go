// Package fileutils provides the file operations shared by the store and the
// batch commands.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureParentDir creates the directory that will hold filePath. In-memory
// and URI style SQLite names are left alone.
func EnsureParentDir(filePath string) error {
	if filePath == "" || filePath == ":memory:" || strings.HasPrefix(filePath, "file:") {
		return nil
	}
	dir := filepath.Dir(filePath)
	if DirectoryExists(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// OpenInput opens an existing regular file for reading.
func OpenInput(filePath string) (*os.File, error) {
	if !FileExists(filePath) {
		return nil, fmt.Errorf("input file does not exist: %s", filePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// CreateOutput creates or truncates filePath, creating parent directories.
func CreateOutput(filePath string) (*os.File, error) {
	if err := EnsureParentDir(filePath); err != nil {
		return nil, err
	}
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"
	"path/filepath"
)

// UnixPlatform implements Platform interface for Unix-like systems (Linux, macOS, etc.)
type UnixPlatform struct{}

// GetConfigDir returns the Unix-appropriate configuration directory
func (u *UnixPlatform) GetConfigDir() string {
	// Check for explicit override first
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}

	// Check XDG Base Directory specification
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, AppName)
	}

	// Default to home directory
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "."+AppName)
}

// IsAbsolutePath checks if a path is absolute on Unix
func (u *UnixPlatform) IsAbsolutePath(path string) bool {
	return filepath.IsAbs(path)
}

// NormalizePath normalizes a path for Unix
func (u *UnixPlatform) NormalizePath(path string) string {
	return filepath.Clean(path)
}

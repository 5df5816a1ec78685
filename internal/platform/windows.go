// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// WindowsPlatform implements Platform interface for Windows systems
type WindowsPlatform struct{}

// GetConfigDir returns the Windows-appropriate configuration directory
func (w *WindowsPlatform) GetConfigDir() string {
	// Check for explicit override first
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}

	// Try APPDATA first (recommended for Windows applications)
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, AppName)
	}

	// Fallback to user profile directory
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return filepath.Join(userProfile, "."+AppName)
	}

	return "." + AppName
}

// IsAbsolutePath checks if a path is absolute on Windows
func (w *WindowsPlatform) IsAbsolutePath(path string) bool {
	return filepath.IsAbs(path)
}

// NormalizePath normalizes a path for Windows
func (w *WindowsPlatform) NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	// Handle UNC paths (\\server\share)
	if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
		normalized = "\\\\" + strings.TrimPrefix(normalized, "\\")
	}

	return normalized
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"runtime"
)

// AppName is the directory name used under the platform config locations
const AppName = "pdfrange"

// ConfigDirEnv overrides the configuration directory on every platform
const ConfigDirEnv = "PDFRANGE_CONFIG_DIR"

// Platform defines the interface for platform-specific operations
type Platform interface {
	GetConfigDir() string
	NormalizePath(path string) string
	IsAbsolutePath(path string) bool
}

// GetPlatform returns the appropriate platform implementation for the current OS
func GetPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return &WindowsPlatform{}
	default:
		return &UnixPlatform{}
	}
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnixConfigDir_EnvOverride(t *testing.T) {
	t.Setenv(ConfigDirEnv, "/opt/pdfrange-conf")
	assert.Equal(t, "/opt/pdfrange-conf", (&UnixPlatform{}).GetConfigDir())
}

func TestUnixConfigDir_XDG(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "/home/u/.config")
	assert.Equal(t, filepath.Join("/home/u/.config", AppName), (&UnixPlatform{}).GetConfigDir())
}

func TestWindowsConfigDir_AppData(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	t.Setenv("APPDATA", "appdata")
	assert.Equal(t, filepath.Join("appdata", AppName), (&WindowsPlatform{}).GetConfigDir())
}

func TestUnixNormalizePath(t *testing.T) {
	assert.Equal(t, "a/c", (&UnixPlatform{}).NormalizePath("a/b/../c/"))
}

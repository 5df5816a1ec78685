// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdfrange/internal/extract"
	"pdfrange/internal/paths"
)

// ErrWrite matches every failure to save the output file
var ErrWrite = errors.New("error saving file")

// FilePermissions is the mode used when creating output files
const FilePermissions = 0644

// FileName derives the output name from the input path and page range:
// a trailing ".pdf" (any case) is replaced with "_SSS-EEE.txt". A path without
// that suffix keeps its full name and gets the suffix appended, so the result
// never equals the input.
func FileName(inputPath string, r extract.PageRange) string {
	base := inputPath
	if ext := filepath.Ext(inputPath); strings.EqualFold(ext, ".pdf") {
		base = strings.TrimSuffix(inputPath, ext)
	}
	return fmt.Sprintf("%s_%03d-%03d.txt", base, r.Start, r.End)
}

// Resolve picks the final output path. An explicit path wins; otherwise the
// derived name is used, moved into outputDir when one is configured.
func Resolve(inputPath string, r extract.PageRange, explicit, outputDir string) (string, error) {
	if explicit != "" {
		if err := paths.ValidatePath(explicit); err != nil {
			return "", err
		}
		return paths.NormalizePath(explicit), nil
	}

	name := FileName(inputPath, r)
	if outputDir == "" {
		return name, nil
	}
	if err := paths.ValidatePath(outputDir); err != nil {
		return "", err
	}
	return filepath.Join(paths.NormalizePath(outputDir), filepath.Base(name)), nil
}

// Write saves text as UTF-8 to path, replacing any existing file
func Write(path, text string) error {
	if err := os.WriteFile(path, []byte(text), FilePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

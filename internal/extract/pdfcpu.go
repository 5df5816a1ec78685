// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Keep pdfcpu from creating its config directory under the user's home
	api.DisableConfigDir()
}

// pdfcpuDocument implements Document on a fully read pdfcpu context.
// The source file is closed once the context has been read.
type pdfcpuDocument struct {
	ctx *model.Context
}

func openPdfcpu(path string) (Document, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return &pdfcpuDocument{ctx: ctx}, nil
}

func (d *pdfcpuDocument) PageCount() int {
	if d.ctx == nil {
		return 0
	}
	return d.ctx.PageCount
}

func (d *pdfcpuDocument) PageText(index int) (string, error) {
	if err := checkIndex(index, d.PageCount()); err != nil {
		return "", err
	}

	r, err := pdfcpu.ExtractPageContent(d.ctx, index+1)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", index+1, err)
	}
	if r == nil {
		return "", nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("page %d: reading content: %w", index+1, err)
	}

	return TextFromContentStream(data), nil
}

func (d *pdfcpuDocument) Close() error {
	d.ctx = nil
	return nil
}

// Info summarizes a document's structure
type Info struct {
	PageCount int
	Version   string
	Encrypted bool
	FileSize  int64
}

// Inspect reads document-level information with pdfcpu
func Inspect(path string) (*Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file error: %w", err)
	}

	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	return &Info{
		PageCount: ctx.PageCount,
		Version:   ctx.VersionString(),
		Encrypted: ctx.Encrypt != nil,
		FileSize:  stat.Size(),
	}, nil
}

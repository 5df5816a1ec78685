// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package tokens counts BPE tokens with the tiktoken encodings.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

func init() {
	// Use the BPE ranks embedded in the loader module instead of downloading them
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// knownEncodings are the encoding scheme names tiktoken can build
var knownEncodings = map[string]bool{
	"o200k_base":  true,
	"cl100k_base": true,
	"p50k_base":   true,
	"p50k_edit":   true,
	"r50k_base":   true,
}

// IsKnownEncoding reports whether name is an encoding scheme (not a model) name
func IsKnownEncoding(name string) bool {
	return knownEncodings[name]
}

// Count is the result of tokenizing a text
type Count struct {
	Tokens   int
	Encoding string // scheme or model name actually used
	FellBack bool   // true when the primary name was not recognized
}

// Counter tokenizes text with a primary encoding and a fallback
type Counter struct {
	primary  string
	fallback string
	warn     func(string)
}

// NewCounter creates a counter. warn receives the fallback warning; nil discards it.
func NewCounter(primary, fallback string, warn func(string)) *Counter {
	if warn == nil {
		warn = func(string) {}
	}
	return &Counter{
		primary:  primary,
		fallback: fallback,
		warn:     warn,
	}
}

// Count returns the number of tokens in text. An unrecognized primary name
// falls back to the secondary scheme with a warning; every other failure is
// returned.
func (c *Counter) Count(text string) (Count, error) {
	enc, name, fellBack, err := c.resolve()
	if err != nil {
		return Count{}, err
	}

	ids := enc.Encode(text, nil, nil)
	return Count{
		Tokens:   len(ids),
		Encoding: name,
		FellBack: fellBack,
	}, nil
}

func (c *Counter) resolve() (*tiktoken.Tiktoken, string, bool, error) {
	if IsKnownEncoding(c.primary) {
		enc, err := tiktoken.GetEncoding(c.primary)
		if err != nil {
			return nil, "", false, fmt.Errorf("loading encoding %q: %w", c.primary, err)
		}
		return enc, c.primary, false, nil
	}

	// Model names such as gpt-4o resolve to their encoding
	if enc, err := tiktoken.EncodingForModel(c.primary); err == nil {
		return enc, c.primary, false, nil
	}

	c.warn(fmt.Sprintf("Model name '%s' not found. Using '%s' instead.", c.primary, c.fallback))

	if !IsKnownEncoding(c.fallback) {
		return nil, "", true, fmt.Errorf("fallback encoding %q is not a known encoding", c.fallback)
	}
	enc, err := tiktoken.GetEncoding(c.fallback)
	if err != nil {
		return nil, "", true, fmt.Errorf("loading encoding %q: %w", c.fallback, err)
	}
	return enc, c.fallback, true, nil
}

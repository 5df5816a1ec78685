// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"encoding/json"
	"io"
	"time"
)

// StandardObserver records pipeline step timings
type StandardObserver struct {
	level         ObservabilityLevel
	writer        io.Writer
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	o := &StandardObserver{
		level:  level,
		writer: writer,
	}
	if level == ObservabilityDebug && writer != nil {
		o.DebugObserver = newDebugObserver(writer)
	}
	return o
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, filePath string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			FilePath:   filePath,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// StartStep begins a named step; the returned func closes it.
// Debug mode prints indented start/finish lines, otherwise it behaves like StartTiming.
func (o *StandardObserver) StartStep(component, step, filePath string) func(success bool, details string) {
	if o == nil || o.level == ObservabilityOff {
		return func(bool, string) {}
	}
	if o.DebugObserver != nil {
		return o.DebugObserver.StartStep(component, step, filePath)
	}
	finish := o.StartTiming(component, step, filePath)
	return func(success bool, details string) {
		var metadata map[string]interface{}
		if details != "" {
			metadata = map[string]interface{}{"details": details}
		}
		finish(success, metadata)
	}
}

// LogDetail logs a detail within the current step (debug mode only)
func (o *StandardObserver) LogDetail(component, detail string) {
	if o == nil || o.DebugObserver == nil {
		return
	}
	o.DebugObserver.LogDetail(component, detail)
}

// LogOperation logs operation data
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o == nil || o.level == ObservabilityOff || o.writer == nil {
		return
	}

	data.RequestID = "req-" + time.Now().Format("20060102-150405")
	json.NewEncoder(o.writer).Encode(data)
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	RequestID  string                 `json:"request_id"`
	FilePath   string                 `json:"file_path,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

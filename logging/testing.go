// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
)

// LogEntry represents a parsed JSON log entry for testing.
type LogEntry struct {
	Level   string
	Message string
	Attrs   map[string]any
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return bytes.Clone(b.buf.Bytes())
}

// TestHelper captures JSON logs in memory for assertions.
// It is safe to log from several goroutines.
type TestHelper struct {
	Logger *Logger
	buf    *syncBuffer
}

// NewTestHelper creates a [TestHelper] logging at debug level.
// Additional [Option] values can customize the logger.
func NewTestHelper(t testing.TB, opts ...Option) *TestHelper {
	t.Helper()

	buf := &syncBuffer{}
	logger, err := New(append([]Option{WithJSONHandler(), WithOutput(buf), WithLevel(LevelDebug)}, opts...)...)
	if err != nil {
		t.Fatalf("NewTestHelper: %v", err)
	}

	return &TestHelper{Logger: logger, buf: buf}
}

// Logs returns all parsed log entries.
func (th *TestHelper) Logs() ([]LogEntry, error) {
	return ParseJSONLogEntries(th.buf.snapshot())
}

// ContainsLog reports whether any entry has the given message.
func (th *TestHelper) ContainsLog(msg string) bool {
	return th.find(func(e LogEntry) bool { return e.Message == msg })
}

// ContainsAttr reports whether any entry has the attribute with a value
// whose string form equals value's.
func (th *TestHelper) ContainsAttr(key string, value any) bool {
	return th.find(func(e LogEntry) bool {
		v, ok := e.Attrs[key]
		return ok && fmt.Sprint(v) == fmt.Sprint(value)
	})
}

// CountLevel returns the number of entries at the given level, e.g. "WARN".
func (th *TestHelper) CountLevel(level string) int {
	entries, _ := th.Logs()
	n := 0
	for _, e := range entries {
		if e.Level == level {
			n++
		}
	}

	return n
}

func (th *TestHelper) find(match func(LogEntry) bool) bool {
	entries, err := th.Logs()
	if err != nil {
		return false
	}
	for _, e := range entries {
		if match(e) {
			return true
		}
	}

	return false
}

// ParseJSONLogEntries parses newline-delimited JSON log output.
func ParseJSONLogEntries(data []byte) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			return nil, err
		}

		e := LogEntry{Attrs: make(map[string]any)}
		e.Message, _ = raw["msg"].(string)
		e.Level, _ = raw["level"].(string)
		for k, v := range raw {
			if k != "time" && k != "level" && k != "msg" {
				e.Attrs[k] = v
			}
		}
		entries = append(entries, e)
	}

	return entries, scanner.Err()
}

/*
Copyright 2025 The Kubermatic Kubernetes Platform contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

import (
	"testing"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

func TestFormatFlag(t *testing.T) {
	testcases := []struct {
		input    string
		expected Format
		valid    bool
	}{
		{input: "json", expected: FormatJSON, valid: true},
		{input: "Console", expected: FormatConsole, valid: true},
		{input: "logfmt", valid: false},
		{input: "", valid: false},
	}

	for _, testcase := range testcases {
		t.Run(testcase.input, func(t *testing.T) {
			opts := NewDefaultOptions()
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			opts.AddPFlags(flags)

			err := flags.Parse([]string{"--log-format=" + testcase.input})
			if testcase.valid {
				if err != nil {
					t.Fatalf("Expected %q to be accepted, but got: %v", testcase.input, err)
				}

				if opts.Format != testcase.expected {
					t.Fatalf("Expected format %q, but got %q.", testcase.expected, opts.Format)
				}

				if err := opts.Validate(); err != nil {
					t.Fatalf("Expected options to be valid, but got: %v", err)
				}
			} else if err == nil {
				t.Fatalf("Expected %q to be rejected.", testcase.input)
			}
		})
	}
}

func TestNewFromOptions(t *testing.T) {
	logger := NewFromOptions(Options{Debug: true, Format: FormatConsole})
	if logger == nil {
		t.Fatal("Expected a logger, got nil.")
	}

	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Expected debug level to be enabled.")
	}
}

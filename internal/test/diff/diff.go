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

package diff

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"sigs.k8s.io/yaml"
)

// ObjectDiff renders both objects as YAML and returns a unified diff, or an
// empty string if they render identically.
func ObjectDiff(expected, actual any) string {
	return StringDiff(toYAML(expected), toYAML(actual))
}

// StringDiff returns a unified diff between the two strings.
func StringDiff(expected, actual string) string {
	if expected == actual {
		return ""
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("failed to create diff: %v", err)
	}

	return text
}

func toYAML(obj any) string {
	if s, ok := obj.(string); ok {
		return s
	}

	encoded, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Sprintf("<failed to encode %T: %v>", obj, err)
	}

	return string(encoded)
}

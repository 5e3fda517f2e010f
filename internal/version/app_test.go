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

package version

import (
	"testing"
)

func TestNewAppVersion(t *testing.T) {
	gitVersion, gitHead = "", ""
	if v := NewAppVersion(); v.GitVersion != "v0.0.0-dev" {
		t.Errorf("Expected development version for unstamped builds, got %q.", v.GitVersion)
	}

	gitVersion, gitHead = "v1.2.3", "d9c09114135c62e207b30891899e7e1ad2493f38"
	defer func() { gitVersion, gitHead = "", "" }()

	v := NewAppVersion()
	if v.GitVersion != "v1.2.3" || v.GitHead != gitHead {
		t.Errorf("Expected ldflags values to be used, got %+v.", v)
	}
}

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

// These variables get fed by ldflags during compilation.
var (
	// gitVersion is the output of `git describe` for the commit the agent
	// was built from; for tagged releases this is the tag itself.
	gitVersion string
	// gitHead is the full SHA hash of the Git commit the application was built for.
	gitHead string
)

type AppVersion struct {
	GitVersion string
	GitHead    string
}

func NewAppVersion() AppVersion {
	v := AppVersion{
		GitVersion: gitVersion,
		GitHead:    gitHead,
	}

	if v.GitVersion == "" {
		v.GitVersion = "v0.0.0-dev"
	}

	return v
}

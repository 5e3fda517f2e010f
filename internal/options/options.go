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

package options

import (
	"errors"
	"fmt"
	"net"

	"github.com/spf13/pflag"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

type ControllerRunOptions struct {
	MetricsAddr          string
	HealthAddr           string
	EnableLeaderElection bool
	WorkerCount          int
}

// portIndex is a unique number per cmd/, in order for them
// to be able to run in parallel during development without
// having ports clash.
func NewDefaultOptions(portIndex int) ControllerRunOptions {
	return ControllerRunOptions{
		EnableLeaderElection: true,
		MetricsAddr:          fmt.Sprintf("127.0.0.1:8%d85", portIndex),
		HealthAddr:           fmt.Sprintf("127.0.0.1:8%d86", portIndex),
		WorkerCount:          4,
	}
}

func (opts *ControllerRunOptions) AddPFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&opts.EnableLeaderElection, "enable-leader-election", opts.EnableLeaderElection, "Enable leader election for controller manager. Enabling this will ensure there is only one active controller manager.")
	flags.StringVar(&opts.MetricsAddr, "metrics-listen-address", opts.MetricsAddr, "The address on which /metrics is served.")
	flags.StringVar(&opts.HealthAddr, "health-listen-address", opts.HealthAddr, "The address on which the health endpoints /readyz and /healthz are served.")
	flags.IntVar(&opts.WorkerCount, "worker-count", opts.WorkerCount, "Number of workers which process namespaces in parallel.")
}

func (opts *ControllerRunOptions) Validate() error {
	errs := []error{}

	if opts.WorkerCount < 1 {
		errs = append(errs, errors.New("--worker-count must be at least 1"))
	}

	for flag, addr := range map[string]string{"metrics-listen-address": opts.MetricsAddr, "health-listen-address": opts.HealthAddr} {
		// "0" disables the endpoint in controller-runtime
		if addr == "0" {
			continue
		}

		if _, _, err := net.SplitHostPort(addr); err != nil {
			errs = append(errs, fmt.Errorf("invalid --%s %q: %w", flag, addr, err))
		}
	}

	return utilerrors.NewAggregate(errs)
}

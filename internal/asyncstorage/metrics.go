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

package asyncstorage

import (
	"github.com/prometheus/client_golang/prometheus"

	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

const (
	resultProvisioned = "provisioned"
	resultSkipped     = "skipped"
	resultFailed      = "failed"
)

var (
	provisionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asyncstorage",
		Name:      "provision_total",
		Help:      "Number of provisioning runs by result.",
	}, []string{"result"})

	resourcesCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asyncstorage",
		Name:      "resources_created_total",
		Help:      "Number of objects created by kind.",
	}, []string{"kind"})
)

func init() {
	ctrlmetrics.Registry.MustRegister(provisionTotal, resourcesCreatedTotal)
}

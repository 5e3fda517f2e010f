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
	"fmt"
)

// RuntimeIdentity identifies the workspace runtime async storage is
// provisioned for.
type RuntimeIdentity struct {
	OwnerID                 string
	InfrastructureNamespace string
	WorkspaceID             string
}

func (i RuntimeIdentity) String() string {
	return fmt.Sprintf("%s/%s (owner %s)", i.InfrastructureNamespace, i.WorkspaceID, i.OwnerID)
}

// ResourceKind names the step of the provisioning that failed.
type ResourceKind string

const (
	KindClient    ResourceKind = "client"
	KindConfigMap ResourceKind = "ConfigMap"
	KindPod       ResourceKind = "Pod"
	KindService   ResourceKind = "Service"
)

// InfrastructureError is returned by Provision if talking to the cluster
// failed. It wraps the original error.
type InfrastructureError struct {
	Kind      ResourceKind
	Namespace string
	Err       error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("failed to provision async storage %s in namespace %s: %v", e.Kind, e.Namespace, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

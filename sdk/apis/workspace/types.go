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

package workspace

const (
	// WorkspaceIDLabel marks a namespace as the infrastructure namespace of a
	// workspace. Only namespaces with this label get async storage.
	WorkspaceIDLabel = "asyncstorage.k8c.io/workspace-id"

	// OwnerIDAnnotation names the user owning the workspace. SSH keys are
	// looked up and generated for this owner.
	OwnerIDAnnotation = "asyncstorage.k8c.io/owner-id"

	// SSHOwnerLabel contains a hash of the owner ID on SSH key Secrets.
	SSHOwnerLabel = "asyncstorage.k8c.io/ssh-owner"
	// SSHServiceLabel contains a hash of the service scope on SSH key Secrets.
	SSHServiceLabel = "asyncstorage.k8c.io/ssh-service"

	// SSHOwnerAnnotation, SSHServiceAnnotation and SSHKeyNameAnnotation keep the
	// unhashed values on SSH key Secrets, as label values are too restricted.
	SSHOwnerAnnotation   = "asyncstorage.k8c.io/ssh-owner"
	SSHServiceAnnotation = "asyncstorage.k8c.io/ssh-service"
	SSHKeyNameAnnotation = "asyncstorage.k8c.io/ssh-key-name"
)

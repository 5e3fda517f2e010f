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

/*
Package workspace contains a controller that watches for workspace namespaces
and provisions async storage in them. A namespace is considered a workspace
namespace if it carries the workspace ID label; the owner of the workspace
is read from an annotation and determines which SSH key is used.

The controller never removes anything. Async storage objects live as long as
their namespace and are garbage collected together with it.
*/
package workspace

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

package reconciling

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/runtime"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
)

// ObjectExists lists all objects of the list's kind in the namespace and
// reports whether one of them is called name. The check is not atomic with
// any later create.
func ObjectExists(ctx context.Context, client ctrlruntimeclient.Client, list ctrlruntimeclient.ObjectList, namespace string, name string) (bool, error) {
	if err := client.List(ctx, list, ctrlruntimeclient.InNamespace(namespace)); err != nil {
		return false, fmt.Errorf("failed to list objects in namespace %s: %w", namespace, err)
	}

	found := false
	err := meta.EachListItem(list, func(item runtime.Object) error {
		accessor, err := meta.Accessor(item)
		if err != nil {
			return err
		}

		if accessor.GetName() == name {
			found = true
		}

		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to inspect list: %w", err)
	}

	return found, nil
}

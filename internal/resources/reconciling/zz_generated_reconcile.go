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

	"k8c.io/reconciler/pkg/reconciling"

	corev1 "k8s.io/api/core/v1"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
)

// Unlike k8c.io/reconciler's Reconcile* functions, the Ensure* functions
// below only ever create objects. Existing objects are left untouched.

// ensureNamedObject creates the object returned by reconciler unless an
// object with the given name already exists in the namespace. It reports
// whether an object was created.
func ensureNamedObject(ctx context.Context, namespace string, name string, reconciler reconciling.ObjectReconciler, client ctrlruntimeclient.Client, list ctrlruntimeclient.ObjectList) (bool, error) {
	exists, err := ObjectExists(ctx, client, list, namespace, name)
	if err != nil {
		return false, err
	}

	if exists {
		return false, nil
	}

	obj, err := reconciler(nil)
	if err != nil {
		return false, fmt.Errorf("failed to build object: %w", err)
	}

	if err := client.Create(ctx, obj); err != nil {
		return false, fmt.Errorf("failed to create object: %w", err)
	}

	return true, nil
}

func wrapObjectReconciler(reconcileObject reconciling.ObjectReconciler, namespace string, name string, objectModifiers []reconciling.ObjectModifier) reconciling.ObjectReconciler {
	reconcileObject = reconciling.CreateWithNamespace(reconcileObject, namespace)
	reconcileObject = reconciling.CreateWithName(reconcileObject, name)

	for _, objectModifier := range objectModifiers {
		reconcileObject = objectModifier(reconcileObject)
	}

	return reconcileObject
}

// ConfigMapReconciler defines an interface to create ConfigMaps.
type ConfigMapReconciler = func(existing *corev1.ConfigMap) (*corev1.ConfigMap, error)

// NamedConfigMapReconcilerFactory returns the name of the resource and the corresponding Reconciler function.
type NamedConfigMapReconcilerFactory = func() (name string, reconciler ConfigMapReconciler)

// ConfigMapObjectWrapper adds a wrapper so the ConfigMapReconciler matches ObjectReconciler.
// This is needed as Go does not support function interface matching.
func ConfigMapObjectWrapper(reconciler ConfigMapReconciler) reconciling.ObjectReconciler {
	return func(existing ctrlruntimeclient.Object) (ctrlruntimeclient.Object, error) {
		if existing != nil {
			return reconciler(existing.(*corev1.ConfigMap))
		}
		return reconciler(&corev1.ConfigMap{})
	}
}

// EnsureConfigMaps creates the ConfigMaps coming from the passed ConfigMapReconciler slice,
// unless they already exist. It returns the names of the created ConfigMaps.
func EnsureConfigMaps(ctx context.Context, namedFactories []NamedConfigMapReconcilerFactory, namespace string, client ctrlruntimeclient.Client, objectModifiers ...reconciling.ObjectModifier) ([]string, error) {
	var created []string

	for _, factory := range namedFactories {
		name, reconciler := factory()
		reconcileObject := wrapObjectReconciler(ConfigMapObjectWrapper(reconciler), namespace, name, objectModifiers)

		ok, err := ensureNamedObject(ctx, namespace, name, reconcileObject, client, &corev1.ConfigMapList{})
		if err != nil {
			return created, fmt.Errorf("failed to ensure ConfigMap %s/%s: %w", namespace, name, err)
		}

		if ok {
			created = append(created, name)
		}
	}

	return created, nil
}

// PodReconciler defines an interface to create Pods.
type PodReconciler = func(existing *corev1.Pod) (*corev1.Pod, error)

// NamedPodReconcilerFactory returns the name of the resource and the corresponding Reconciler function.
type NamedPodReconcilerFactory = func() (name string, reconciler PodReconciler)

// PodObjectWrapper adds a wrapper so the PodReconciler matches ObjectReconciler.
// This is needed as Go does not support function interface matching.
func PodObjectWrapper(reconciler PodReconciler) reconciling.ObjectReconciler {
	return func(existing ctrlruntimeclient.Object) (ctrlruntimeclient.Object, error) {
		if existing != nil {
			return reconciler(existing.(*corev1.Pod))
		}
		return reconciler(&corev1.Pod{})
	}
}

// EnsurePods creates the Pods coming from the passed PodReconciler slice,
// unless they already exist. It returns the names of the created Pods.
func EnsurePods(ctx context.Context, namedFactories []NamedPodReconcilerFactory, namespace string, client ctrlruntimeclient.Client, objectModifiers ...reconciling.ObjectModifier) ([]string, error) {
	var created []string

	for _, factory := range namedFactories {
		name, reconciler := factory()
		reconcileObject := wrapObjectReconciler(PodObjectWrapper(reconciler), namespace, name, objectModifiers)

		ok, err := ensureNamedObject(ctx, namespace, name, reconcileObject, client, &corev1.PodList{})
		if err != nil {
			return created, fmt.Errorf("failed to ensure Pod %s/%s: %w", namespace, name, err)
		}

		if ok {
			created = append(created, name)
		}
	}

	return created, nil
}

// ServiceReconciler defines an interface to create Services.
type ServiceReconciler = func(existing *corev1.Service) (*corev1.Service, error)

// NamedServiceReconcilerFactory returns the name of the resource and the corresponding Reconciler function.
type NamedServiceReconcilerFactory = func() (name string, reconciler ServiceReconciler)

// ServiceObjectWrapper adds a wrapper so the ServiceReconciler matches ObjectReconciler.
// This is needed as Go does not support function interface matching.
func ServiceObjectWrapper(reconciler ServiceReconciler) reconciling.ObjectReconciler {
	return func(existing ctrlruntimeclient.Object) (ctrlruntimeclient.Object, error) {
		if existing != nil {
			return reconciler(existing.(*corev1.Service))
		}
		return reconciler(&corev1.Service{})
	}
}

// EnsureServices creates the Services coming from the passed ServiceReconciler slice,
// unless they already exist. It returns the names of the created Services.
func EnsureServices(ctx context.Context, namedFactories []NamedServiceReconcilerFactory, namespace string, client ctrlruntimeclient.Client, objectModifiers ...reconciling.ObjectModifier) ([]string, error) {
	var created []string

	for _, factory := range namedFactories {
		name, reconciler := factory()
		reconcileObject := wrapObjectReconciler(ServiceObjectWrapper(reconciler), namespace, name, objectModifiers)

		ok, err := ensureNamedObject(ctx, namespace, name, reconcileObject, client, &corev1.ServiceList{})
		if err != nil {
			return created, fmt.Errorf("failed to ensure Service %s/%s: %w", namespace, name, err)
		}

		if ok {
			created = append(created, name)
		}
	}

	return created, nil
}

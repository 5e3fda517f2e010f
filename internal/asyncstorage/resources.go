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
	"strconv"

	"k8c.io/async-storage/internal/resources/reconciling"
	"k8c.io/async-storage/internal/sshkey"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	utilrand "k8s.io/apimachinery/pkg/util/rand"
)

// generatedNameLength is the number of random characters appended by
// GenerateName.
const generatedNameLength = 8

// GenerateName appends random lowercase alphanumeric characters to prefix.
func GenerateName(prefix string) string {
	return prefix + utilrand.String(generatedNameLength)
}

// BuildConfigMap returns the ConfigMap carrying the public key as
// authorized_keys file.
func BuildConfigMap(cfg Config, namespace string, name string, pair sshkey.Pair) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Data: map[string]string{
			cfg.AuthorizedKeysKey: pair.PublicKey,
		},
	}
}

// BuildPod returns the storage Pod, mounting the data PVC read-write and the
// authorized_keys file from the ConfigMap read-only.
func BuildPod(cfg Config, namespace string, configMapName string, containerName string) *corev1.Pod {
	container := corev1.Container{
		Name:  containerName,
		Image: cfg.Image,
		Resources: corev1.ResourceRequirements{
			Limits: corev1.ResourceList{
				corev1.ResourceMemory: cfg.MemoryLimit.DeepCopy(),
			},
			Requests: corev1.ResourceList{
				corev1.ResourceMemory: cfg.MemoryRequest.DeepCopy(),
			},
		},
		Ports: []corev1.ContainerPort{
			{
				ContainerPort: cfg.Port,
				Protocol:      cfg.Protocol(),
			},
		},
		VolumeMounts: []corev1.VolumeMount{
			{
				Name:      cfg.DataVolumeName,
				MountPath: cfg.DataPath,
				ReadOnly:  false,
			},
			{
				Name:      cfg.ConfigVolumeName,
				MountPath: cfg.AuthorizedKeysPath,
				SubPath:   cfg.AuthorizedKeysKey,
				ReadOnly:  true,
			},
		},
	}

	return &corev1.Pod{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Pod",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      cfg.ResourceName,
			Namespace: namespace,
			Labels:    cfg.Labels(),
		},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{container},
			Volumes: []corev1.Volume{
				{
					Name: cfg.DataVolumeName,
					VolumeSource: corev1.VolumeSource{
						PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
							ClaimName: cfg.PVCName,
							ReadOnly:  false,
						},
					},
				},
				{
					Name: cfg.ConfigVolumeName,
					VolumeSource: corev1.VolumeSource{
						ConfigMap: &corev1.ConfigMapVolumeSource{
							LocalObjectReference: corev1.LocalObjectReference{
								Name: configMapName,
							},
						},
					},
				},
			},
		},
	}
}

// BuildService returns the Service routing to the storage Pod.
func BuildService(cfg Config, namespace string) *corev1.Service {
	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Service",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      cfg.ResourceName,
			Namespace: namespace,
		},
		Spec: corev1.ServiceSpec{
			Selector: cfg.Labels(),
			Ports: []corev1.ServicePort{
				{
					Name:       strconv.Itoa(int(cfg.Port)),
					Protocol:   cfg.Protocol(),
					Port:       cfg.Port,
					TargetPort: intstr.FromInt32(cfg.Port),
				},
			},
		},
	}
}

// The reconcilers below are only ever invoked for objects that do not exist
// yet, so they return the freshly built object instead of patching existing.

func configMapReconciler(cfg Config, namespace string, name string, pair sshkey.Pair) reconciling.NamedConfigMapReconcilerFactory {
	return func() (string, reconciling.ConfigMapReconciler) {
		return name, func(_ *corev1.ConfigMap) (*corev1.ConfigMap, error) {
			return BuildConfigMap(cfg, namespace, name, pair), nil
		}
	}
}

func podReconciler(cfg Config, namespace string, configMapName string, generateName func(string) string) reconciling.NamedPodReconcilerFactory {
	return func() (string, reconciling.PodReconciler) {
		return cfg.ResourceName, func(_ *corev1.Pod) (*corev1.Pod, error) {
			return BuildPod(cfg, namespace, configMapName, generateName(cfg.ResourceName)), nil
		}
	}
}

func serviceReconciler(cfg Config, namespace string) reconciling.NamedServiceReconcilerFactory {
	return func() (string, reconciling.ServiceReconciler) {
		return cfg.ResourceName, func(_ *corev1.Service) (*corev1.Service, error) {
			return BuildService(cfg, namespace), nil
		}
	}
}

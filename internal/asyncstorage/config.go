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
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/validation"
)

// Config holds everything needed to build the async storage resources.
// It is static for the lifetime of the process.
type Config struct {
	// PVCName is the externally provisioned PersistentVolumeClaim that holds
	// the workspace data.
	PVCName string
	// Image is the container image running the rsync/SSH server.
	Image string

	// ResourceName is used for the Pod, the Service, the "app" label and as
	// the prefix of the container name.
	ResourceName string
	// ConfigMapSuffix is appended to the namespace to form the ConfigMap name.
	ConfigMapSuffix string
	Port            int32

	DataVolumeName     string
	DataPath           string
	ConfigVolumeName   string
	AuthorizedKeysKey  string
	AuthorizedKeysPath string

	MemoryLimit   resource.Quantity
	MemoryRequest resource.Quantity
}

func NewDefaultConfig(pvcName, image string) Config {
	return Config{
		PVCName:            pvcName,
		Image:              image,
		ResourceName:       "storage",
		ConfigMapSuffix:    "async-storage-config",
		Port:               2222,
		DataVolumeName:     "storage-data",
		DataPath:           "/var/lib/storage/data/",
		ConfigVolumeName:   "async-storage-configvolume",
		AuthorizedKeysKey:  "authorized_keys",
		AuthorizedKeysPath: "/.ssh/authorized_keys",
		MemoryLimit:        resource.MustParse("512Mi"),
		MemoryRequest:      resource.MustParse("256Mi"),
	}
}

// ConfigMapName returns the name of the ConfigMap holding the authorized
// keys in the given namespace.
func (c Config) ConfigMapName(namespace string) string {
	return namespace + c.ConfigMapSuffix
}

// Labels is used both for the Pod and the Service selector.
func (c Config) Labels() map[string]string {
	return map[string]string{
		"app": c.ResourceName,
	}
}

func (c Config) Protocol() corev1.Protocol {
	return corev1.ProtocolTCP
}

func (c Config) Validate() error {
	errs := []error{}

	if len(c.PVCName) == 0 {
		errs = append(errs, errors.New("PVC name must not be empty"))
	} else if e := validation.IsDNS1123Subdomain(c.PVCName); len(e) > 0 {
		errs = append(errs, fmt.Errorf("invalid PVC name %q: %v", c.PVCName, e))
	}

	if len(c.Image) == 0 {
		errs = append(errs, errors.New("storage image must not be empty"))
	}

	if e := validation.IsDNS1123Label(c.ResourceName); len(e) > 0 {
		errs = append(errs, fmt.Errorf("invalid resource name %q: %v", c.ResourceName, e))
	}

	if e := validation.IsValidPortNum(int(c.Port)); len(e) > 0 {
		errs = append(errs, fmt.Errorf("invalid port %d: %v", c.Port, e))
	}

	if c.MemoryRequest.Cmp(c.MemoryLimit) > 0 {
		errs = append(errs, fmt.Errorf("memory request %s exceeds limit %s", c.MemoryRequest.String(), c.MemoryLimit.String()))
	}

	return utilerrors.NewAggregate(errs)
}

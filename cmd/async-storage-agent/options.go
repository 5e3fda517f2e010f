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

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"k8c.io/async-storage/internal/asyncstorage"
	"k8c.io/async-storage/internal/log"
	"k8c.io/async-storage/internal/options"
	"k8c.io/async-storage/internal/sshkey"

	"k8s.io/apimachinery/pkg/api/resource"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/validation"
)

type Options struct {
	// NB: Not actually defined here, as ctrl-runtime registers its
	// own --kubeconfig flag that is required to make its GetConfigOrDie()
	// work.
	// KubeconfigFile string

	// Namespace is the namespace that the agent runs in. SSH key Secrets
	// are stored here and the leader election lease is created here.
	Namespace string

	// PVCName is the PersistentVolumeClaim in each workspace namespace
	// that is mounted into the storage pod.
	PVCName string

	// StorageImage is the image of the rsync/SSH storage server.
	StorageImage string

	MemoryLimit   string
	MemoryRequest string

	// SSHKeyBits is the RSA modulus size for newly generated keys.
	SSHKeyBits int

	ControllerOptions options.ControllerRunOptions
	LogOptions        log.Options

	// set by Complete()
	StorageConfig asyncstorage.Config
}

func NewOptions() *Options {
	return &Options{
		MemoryLimit:       "512Mi",
		MemoryRequest:     "256Mi",
		SSHKeyBits:        sshkey.DefaultKeyBits,
		ControllerOptions: options.NewDefaultOptions(0),
		LogOptions:        log.NewDefaultOptions(),
	}
}

func (o *Options) AddFlags(flags *pflag.FlagSet) {
	o.LogOptions.AddPFlags(flags)
	o.ControllerOptions.AddPFlags(flags)

	flags.StringVar(&o.Namespace, "namespace", o.Namespace, "Kubernetes namespace the agent is running in")
	flags.StringVar(&o.PVCName, "pvc-name", o.PVCName, "name of the PersistentVolumeClaim holding workspace data in each workspace namespace")
	flags.StringVar(&o.StorageImage, "storage-image", o.StorageImage, "container image of the async storage server")
	flags.StringVar(&o.MemoryLimit, "storage-memory-limit", o.MemoryLimit, "memory limit of the storage container")
	flags.StringVar(&o.MemoryRequest, "storage-memory-request", o.MemoryRequest, "memory request of the storage container")
	flags.IntVar(&o.SSHKeyBits, "ssh-key-bits", o.SSHKeyBits, "RSA key size for generated SSH keys")
}

func (o *Options) Validate() error {
	errs := []error{}

	if err := o.LogOptions.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := o.ControllerOptions.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(o.Namespace) == 0 {
		errs = append(errs, errors.New("--namespace is required"))
	} else if e := validation.IsDNS1123Label(o.Namespace); len(e) > 0 {
		errs = append(errs, fmt.Errorf("--namespace is invalid: %v", e))
	}

	if len(o.PVCName) == 0 {
		errs = append(errs, errors.New("--pvc-name is required"))
	}

	if len(o.StorageImage) == 0 {
		errs = append(errs, errors.New("--storage-image is required"))
	}

	if _, err := resource.ParseQuantity(o.MemoryLimit); err != nil {
		errs = append(errs, fmt.Errorf("invalid --storage-memory-limit %q: %w", o.MemoryLimit, err))
	}

	if _, err := resource.ParseQuantity(o.MemoryRequest); err != nil {
		errs = append(errs, fmt.Errorf("invalid --storage-memory-request %q: %w", o.MemoryRequest, err))
	}

	if o.SSHKeyBits < 2048 {
		errs = append(errs, errors.New("--ssh-key-bits must be at least 2048"))
	}

	return utilerrors.NewAggregate(errs)
}

func (o *Options) Complete() error {
	cfg := asyncstorage.NewDefaultConfig(o.PVCName, o.StorageImage)

	// Validate() already made sure these parse
	cfg.MemoryLimit = resource.MustParse(o.MemoryLimit)
	cfg.MemoryRequest = resource.MustParse(o.MemoryRequest)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid storage configuration: %w", err)
	}

	o.StorageConfig = cfg

	return nil
}

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
	"context"

	"go.uber.org/zap"

	"k8c.io/async-storage/internal/resources/reconciling"
	"k8c.io/async-storage/internal/sshkey"

	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
)

// ClientFunc returns the client used to talk to the cluster running the
// given workspace.
type ClientFunc func(workspaceID string) (ctrlruntimeclient.Client, error)

// StaticClient returns a ClientFunc that always returns client.
func StaticClient(client ctrlruntimeclient.Client) ClientFunc {
	return func(string) (ctrlruntimeclient.Client, error) {
		return client, nil
	}
}

// KeyAcquirer is satisfied by *sshkey.Acquirer.
type KeyAcquirer interface {
	AcquireOrCreate(ctx context.Context, ownerID string) *sshkey.Pair
}

// Provisioner makes sure the async storage ConfigMap, Pod and Service exist
// in a workspace namespace.
type Provisioner struct {
	config       Config
	keys         KeyAcquirer
	clients      ClientFunc
	log          *zap.SugaredLogger
	generateName func(prefix string) string
}

type Option func(*Provisioner)

// WithNameGenerator replaces GenerateName for the container name.
func WithNameGenerator(generate func(prefix string) string) Option {
	return func(p *Provisioner) {
		p.generateName = generate
	}
}

func NewProvisioner(config Config, keys KeyAcquirer, clients ClientFunc, log *zap.SugaredLogger, opts ...Option) *Provisioner {
	p := &Provisioner{
		config:       config,
		keys:         keys,
		clients:      clients,
		log:          log.Named("provisioner"),
		generateName: GenerateName,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Provision creates whatever async storage objects are missing in the
// identity's namespace. If no SSH key can be obtained, nothing is created and
// no error is returned. Cluster failures are returned as *InfrastructureError.
//
// Every kind is checked on its own, so a run after a partial failure picks up
// where the previous one stopped. Concurrent calls for the same namespace are
// not synchronized; the loser gets an AlreadyExists error from the API.
func (p *Provisioner) Provision(ctx context.Context, identity RuntimeIdentity) error {
	namespace := identity.InfrastructureNamespace
	log := p.log.With("namespace", namespace, "workspace", identity.WorkspaceID)

	pair := p.keys.AcquireOrCreate(ctx, identity.OwnerID)
	if pair == nil {
		log.Warn("No SSH key available, async storage is not provisioned")
		provisionTotal.WithLabelValues(resultSkipped).Inc()
		return nil
	}

	log.Debugw("Credential ready", "key", pair.Name)

	err := p.provision(ctx, log, identity, *pair)
	if err != nil {
		provisionTotal.WithLabelValues(resultFailed).Inc()
		return err
	}

	provisionTotal.WithLabelValues(resultProvisioned).Inc()

	return nil
}

func (p *Provisioner) provision(ctx context.Context, log *zap.SugaredLogger, identity RuntimeIdentity, pair sshkey.Pair) error {
	namespace := identity.InfrastructureNamespace

	client, err := p.clients(identity.WorkspaceID)
	if err != nil {
		return &InfrastructureError{Kind: KindClient, Namespace: namespace, Err: err}
	}

	configMapName := p.config.ConfigMapName(namespace)

	created, err := reconciling.EnsureConfigMaps(ctx, []reconciling.NamedConfigMapReconcilerFactory{
		configMapReconciler(p.config, namespace, configMapName, pair),
	}, namespace, client)
	if err != nil {
		return &InfrastructureError{Kind: KindConfigMap, Namespace: namespace, Err: err}
	}
	p.logCreated(log, KindConfigMap, created)
	log.Debugw("ConfigMap ready", "name", configMapName)

	created, err = reconciling.EnsurePods(ctx, []reconciling.NamedPodReconcilerFactory{
		podReconciler(p.config, namespace, configMapName, p.generateName),
	}, namespace, client)
	if err != nil {
		return &InfrastructureError{Kind: KindPod, Namespace: namespace, Err: err}
	}
	p.logCreated(log, KindPod, created)
	log.Debugw("Pod ready", "name", p.config.ResourceName)

	created, err = reconciling.EnsureServices(ctx, []reconciling.NamedServiceReconcilerFactory{
		serviceReconciler(p.config, namespace),
	}, namespace, client)
	if err != nil {
		return &InfrastructureError{Kind: KindService, Namespace: namespace, Err: err}
	}
	p.logCreated(log, KindService, created)
	log.Debugw("Service ready", "name", p.config.ResourceName)

	return nil
}

func (p *Provisioner) logCreated(log *zap.SugaredLogger, kind ResourceKind, names []string) {
	for _, name := range names {
		log.Infow("Created object", "kind", kind, "name", name)
		resourcesCreatedTotal.WithLabelValues(string(kind)).Inc()
	}
}

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

package sshkey

import (
	"context"
	"fmt"

	"k8c.io/async-storage/internal/crypto"
	"k8c.io/async-storage/sdk/apis/workspace"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
)

// PublicKeyDataKey holds the authorized_keys line next to the
// corev1.SSHAuthPrivateKey in key Secrets.
const PublicKeyDataKey = "ssh-publickey"

// SecretStore keeps SSH key pairs as kubernetes.io/ssh-auth Secrets in a
// single namespace. Owner and service are hashed into labels, so arbitrary
// owner IDs can be used.
type SecretStore struct {
	client    ctrlruntimeclient.Client
	namespace string
	keyBits   int
}

var _ Store = &SecretStore{}

func NewSecretStore(client ctrlruntimeclient.Client, namespace string, keyBits int) *SecretStore {
	if keyBits <= 0 {
		keyBits = DefaultKeyBits
	}

	return &SecretStore{
		client:    client,
		namespace: namespace,
		keyBits:   keyBits,
	}
}

func (s *SecretStore) GetPairs(ctx context.Context, owner, service string) ([]Pair, error) {
	secrets := &corev1.SecretList{}
	if err := s.client.List(ctx, secrets, ctrlruntimeclient.InNamespace(s.namespace), ownerLabels(owner, service)); err != nil {
		return nil, fmt.Errorf("failed to list SSH key Secrets: %w", err)
	}

	pairs := make([]Pair, 0, len(secrets.Items))
	for _, secret := range secrets.Items {
		// hash collisions are not impossible, so double check the plain values
		if secret.Annotations[workspace.SSHOwnerAnnotation] != owner || secret.Annotations[workspace.SSHServiceAnnotation] != service {
			continue
		}

		pairs = append(pairs, pairFromSecret(&secret))
	}

	return pairs, nil
}

func (s *SecretStore) GeneratePair(ctx context.Context, owner, service, name string) (*Pair, error) {
	publicKey, privateKey, err := GenerateRSAPair(s.keyBits)
	if err != nil {
		return nil, err
	}

	labels := ownerLabels(owner, service)

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      SecretName(owner, service, name),
			Namespace: s.namespace,
			Labels:    labels,
			Annotations: map[string]string{
				workspace.SSHOwnerAnnotation:   owner,
				workspace.SSHServiceAnnotation: service,
				workspace.SSHKeyNameAnnotation: name,
			},
		},
		Type: corev1.SecretTypeSSHAuth,
		Data: map[string][]byte{
			corev1.SSHAuthPrivateKey: []byte(privateKey),
			PublicKeyDataKey:         []byte(publicKey),
		},
	}

	if err := s.client.Create(ctx, secret); err != nil {
		if apierrors.IsAlreadyExists(err) {
			return nil, fmt.Errorf("%w: owner %q, service %q, name %q", ErrConflict, owner, service, name)
		}

		return nil, fmt.Errorf("failed to create SSH key Secret: %w", err)
	}

	pair := pairFromSecret(secret)

	return &pair, nil
}

// SecretName returns the deterministic name of the Secret holding the given
// key pair.
func SecretName(owner, service, name string) string {
	return "ssh-" + crypto.KeyHash(owner, service, name)
}

func ownerLabels(owner, service string) ctrlruntimeclient.MatchingLabels {
	return ctrlruntimeclient.MatchingLabels{
		workspace.SSHOwnerLabel:   crypto.ShortHash(owner),
		workspace.SSHServiceLabel: crypto.ShortHash(service),
	}
}

func pairFromSecret(secret *corev1.Secret) Pair {
	return Pair{
		Service:    secret.Annotations[workspace.SSHServiceAnnotation],
		Name:       secret.Annotations[workspace.SSHKeyNameAnnotation],
		PublicKey:  string(secret.Data[PublicKeyDataKey]),
		PrivateKey: string(secret.Data[corev1.SSHAuthPrivateKey]),
	}
}

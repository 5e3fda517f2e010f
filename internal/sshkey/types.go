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
	"errors"
)

const (
	// InternalService is the scope under which keys used by the platform
	// itself (as opposed to keys uploaded by users) are stored.
	InternalService = "internal"

	// AsyncStorageKeyName is the name of the key pair used to rsync
	// workspace data into the storage pod.
	AsyncStorageKeyName = "rsync-via-ssh"
)

// ErrConflict is returned by Store.GeneratePair if a pair with the same
// owner, service and name already exists.
var ErrConflict = errors.New("ssh key pair already exists")

// Pair is an SSH key pair. PublicKey is in authorized_keys format,
// PrivateKey is PEM encoded.
type Pair struct {
	Service    string
	Name       string
	PublicKey  string
	PrivateKey string
}

// Store manages SSH key pairs per owner and service.
type Store interface {
	// GetPairs returns all pairs of the owner in the given service. The
	// order of the result is defined by the store implementation.
	GetPairs(ctx context.Context, owner, service string) ([]Pair, error)
	// GeneratePair creates and persists a new pair. It returns an error
	// wrapping ErrConflict if the pair already exists.
	GeneratePair(ctx context.Context, owner, service, name string) (*Pair, error)
}

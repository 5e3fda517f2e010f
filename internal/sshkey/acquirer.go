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

	"go.uber.org/zap"
)

// Acquirer hands out the key pair used for async storage, creating it on
// first use.
type Acquirer struct {
	store   Store
	log     *zap.SugaredLogger
	service string
	keyName string
}

func NewAcquirer(store Store, log *zap.SugaredLogger) *Acquirer {
	return &Acquirer{
		store:   store,
		log:     log.Named("sshkey"),
		service: InternalService,
		keyName: AsyncStorageKeyName,
	}
}

// AcquireOrCreate returns the first pair the store knows for the owner or
// generates a new one if there is none. Store failures are logged and
// result in nil; callers treat that as "async storage unavailable".
func (a *Acquirer) AcquireOrCreate(ctx context.Context, ownerID string) *Pair {
	log := a.log.With("owner", ownerID, "service", a.service)

	pairs, err := a.store.GetPairs(ctx, ownerID, a.service)
	if err != nil {
		log.Warnw("Unable to get SSH keys", zap.Error(err))
		return nil
	}

	if len(pairs) > 0 {
		if len(pairs) > 1 {
			log.Debugw("Multiple SSH keys found, using the first one", "count", len(pairs), "key", pairs[0].Name)
		}

		return &pairs[0]
	}

	log.Debugw("No SSH key found, generating a new one", "key", a.keyName)

	pair, err := a.store.GeneratePair(ctx, ownerID, a.service, a.keyName)
	if err != nil {
		log.Warnw("Unable to generate the SSH key for async storage service", zap.Error(err))
		return nil
	}

	return pair
}

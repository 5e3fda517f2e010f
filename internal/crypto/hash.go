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

package crypto

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Hash returns the hex encoded SHA-1 of data. Strings and byte slices are
// hashed as-is, everything else is JSON encoded first.
func Hash(data any) string {
	hash := sha1.New()

	var err error
	switch asserted := data.(type) {
	case string:
		_, err = hash.Write([]byte(asserted))
	case []byte:
		_, err = hash.Write(asserted)
	default:
		err = json.NewEncoder(hash).Encode(data)
	}

	if err != nil {
		// Only reachable for values that cannot be JSON encoded, which would be
		// a programming error.
		panic(fmt.Sprintf("Failed to hash: %v", err))
	}

	return hex.EncodeToString(hash.Sum(nil))
}

// ShortHash is a 20 character prefix of Hash, usable both in object names
// and label values.
func ShortHash(data any) string {
	return Hash(data)[:20]
}

// KeyHash hashes the given parts joined by slashes. Parts are not escaped,
// so callers must not rely on it for values that may contain slashes.
func KeyHash(parts ...string) string {
	return ShortHash(strings.Join(parts, "/"))
}

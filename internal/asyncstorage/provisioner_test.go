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
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"k8c.io/async-storage/internal/sshkey"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
	fakectrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"
)

type staticStore struct {
	pairs       []sshkey.Pair
	getErr      error
	generateErr error
}

func (s *staticStore) GetPairs(context.Context, string, string) ([]sshkey.Pair, error) {
	return s.pairs, s.getErr
}

func (s *staticStore) GeneratePair(_ context.Context, _, service, name string) (*sshkey.Pair, error) {
	if s.generateErr != nil {
		return nil, s.generateErr
	}

	return &sshkey.Pair{Service: service, Name: name, PublicKey: "ssh-rsa NEW"}, nil
}

// recordingClient wraps a fake client and records all create calls as
// "Kind/name" in order. failOn makes creates of the given kind fail.
type recordingClient struct {
	ctrlruntimeclient.Client
	creates []string
	failOn  string
}

func newRecordingClient(objs ...ctrlruntimeclient.Object) *recordingClient {
	rc := &recordingClient{}
	rc.Client = fakectrlruntimeclient.NewClientBuilder().
		WithObjects(objs...).
		WithInterceptorFuncs(interceptor.Funcs{
			Create: func(ctx context.Context, client ctrlruntimeclient.WithWatch, obj ctrlruntimeclient.Object, opts ...ctrlruntimeclient.CreateOption) error {
				kind := fmt.Sprintf("%T", obj)
				switch obj.(type) {
				case *corev1.ConfigMap:
					kind = "ConfigMap"
				case *corev1.Pod:
					kind = "Pod"
				case *corev1.Service:
					kind = "Service"
				}

				rc.creates = append(rc.creates, kind+"/"+obj.GetName())

				if kind == rc.failOn {
					return apierrors.NewInternalError(errors.New("admission webhook unavailable"))
				}

				return client.Create(ctx, obj, opts...)
			},
		}).
		Build()

	return rc
}

func newTestProvisioner(store sshkey.Store, client ctrlruntimeclient.Client) *Provisioner {
	log := zap.NewNop().Sugar()

	return NewProvisioner(
		testConfig(),
		sshkey.NewAcquirer(store, log),
		StaticClient(client),
		log,
		WithNameGenerator(func(prefix string) string { return prefix + "xyz" }),
	)
}

func TestProvisionCreatesAllResourcesInOrder(t *testing.T) {
	ctx := context.Background()
	client := newRecordingClient()
	store := &staticStore{pairs: []sshkey.Pair{{Name: "k1", PublicKey: "AAAA..."}}}

	before := testutil.ToFloat64(resourcesCreatedTotal.WithLabelValues(string(KindPod)))

	err := newTestProvisioner(store, client).Provision(ctx, RuntimeIdentity{OwnerID: "user1", InfrastructureNamespace: "ns1", WorkspaceID: "ws1"})
	require.NoError(t, err)

	require.Equal(t, []string{
		"ConfigMap/ns1async-storage-config",
		"Pod/storage",
		"Service/storage",
	}, client.creates)

	cm := &corev1.ConfigMap{}
	require.NoError(t, client.Get(ctx, types.NamespacedName{Namespace: "ns1", Name: "ns1async-storage-config"}, cm))
	require.Equal(t, map[string]string{"authorized_keys": "AAAA..."}, cm.Data)

	pod := &corev1.Pod{}
	require.NoError(t, client.Get(ctx, types.NamespacedName{Namespace: "ns1", Name: "storage"}, pod))
	require.Equal(t, "storagexyz", pod.Spec.Containers[0].Name)
	require.Equal(t, "ns1async-storage-config", pod.Spec.Volumes[1].ConfigMap.Name)

	svc := &corev1.Service{}
	require.NoError(t, client.Get(ctx, types.NamespacedName{Namespace: "ns1", Name: "storage"}, svc))
	require.Equal(t, int32(2222), svc.Spec.Ports[0].Port)

	require.Equal(t, before+1, testutil.ToFloat64(resourcesCreatedTotal.WithLabelValues(string(KindPod))))
}

func TestProvisionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	client := newRecordingClient()
	provisioner := newTestProvisioner(&staticStore{pairs: []sshkey.Pair{{Name: "k1", PublicKey: "AAAA..."}}}, client)
	identity := RuntimeIdentity{OwnerID: "user1", InfrastructureNamespace: "ns1", WorkspaceID: "ws1"}

	require.NoError(t, provisioner.Provision(ctx, identity))
	require.Len(t, client.creates, 3)

	require.NoError(t, provisioner.Provision(ctx, identity))
	require.Len(t, client.creates, 3, "second run must not create anything")
}

func TestProvisionWithPreexistingResources(t *testing.T) {
	client := newRecordingClient(
		&corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Namespace: "ns1", Name: "ns1async-storage-config"}},
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Namespace: "ns1", Name: "storage"}},
		&corev1.Service{ObjectMeta: metav1.ObjectMeta{Namespace: "ns1", Name: "storage"}},
	)

	provisioner := newTestProvisioner(&staticStore{pairs: []sshkey.Pair{{Name: "k1", PublicKey: "AAAA..."}}}, client)

	err := provisioner.Provision(context.Background(), RuntimeIdentity{OwnerID: "user1", InfrastructureNamespace: "ns1", WorkspaceID: "ws1"})
	require.NoError(t, err)
	require.Empty(t, client.creates)
}

func TestProvisionOnlyConsidersOwnNamespace(t *testing.T) {
	client := newRecordingClient(
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Namespace: "other", Name: "storage"}},
	)

	provisioner := newTestProvisioner(&staticStore{pairs: []sshkey.Pair{{Name: "k1", PublicKey: "AAAA..."}}}, client)

	err := provisioner.Provision(context.Background(), RuntimeIdentity{OwnerID: "user1", InfrastructureNamespace: "ns1", WorkspaceID: "ws1"})
	require.NoError(t, err)
	require.Contains(t, client.creates, "Pod/storage")
}

func TestProvisionSkipsWithoutCredential(t *testing.T) {
	testcases := []struct {
		name  string
		store *staticStore
	}{
		{
			name:  "read and generate fail",
			store: &staticStore{getErr: errors.New("store down"), generateErr: errors.New("store down")},
		},
		{
			name:  "empty store and generate fails",
			store: &staticStore{generateErr: sshkey.ErrConflict},
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.name, func(t *testing.T) {
			client := newRecordingClient()
			before := testutil.ToFloat64(provisionTotal.WithLabelValues(resultSkipped))

			err := newTestProvisioner(testcase.store, client).Provision(context.Background(), RuntimeIdentity{OwnerID: "user1", InfrastructureNamespace: "ns1", WorkspaceID: "ws1"})
			require.NoError(t, err)
			require.Empty(t, client.creates)
			require.Equal(t, before+1, testutil.ToFloat64(provisionTotal.WithLabelValues(resultSkipped)))
		})
	}
}

func TestProvisionGeneratesMissingCredential(t *testing.T) {
	ctx := context.Background()
	client := newRecordingClient()

	err := newTestProvisioner(&staticStore{}, client).Provision(ctx, RuntimeIdentity{OwnerID: "user1", InfrastructureNamespace: "ns1", WorkspaceID: "ws1"})
	require.NoError(t, err)

	cm := &corev1.ConfigMap{}
	require.NoError(t, client.Get(ctx, types.NamespacedName{Namespace: "ns1", Name: "ns1async-storage-config"}, cm))
	require.Equal(t, "ssh-rsa NEW", cm.Data["authorized_keys"])
}

func TestProvisionResumesAfterPartialFailure(t *testing.T) {
	ctx := context.Background()
	client := newRecordingClient()
	client.failOn = "Pod"

	provisioner := newTestProvisioner(&staticStore{pairs: []sshkey.Pair{{Name: "k1", PublicKey: "AAAA..."}}}, client)
	identity := RuntimeIdentity{OwnerID: "user1", InfrastructureNamespace: "ns1", WorkspaceID: "ws1"}

	err := provisioner.Provision(ctx, identity)
	require.Error(t, err)

	var infraErr *InfrastructureError
	require.ErrorAs(t, err, &infraErr)
	require.Equal(t, KindPod, infraErr.Kind)
	require.Equal(t, "ns1", infraErr.Namespace)
	require.True(t, apierrors.IsInternalError(err))

	require.Equal(t, []string{"ConfigMap/ns1async-storage-config", "Pod/storage"}, client.creates)

	// the API recovers, the next run must only create what is missing
	client.failOn = ""
	client.creates = nil

	require.NoError(t, provisioner.Provision(ctx, identity))
	require.Equal(t, []string{"Pod/storage", "Service/storage"}, client.creates)
}

func TestProvisionPropagatesCreateConflict(t *testing.T) {
	client := newRecordingClient()
	client.failOn = "Service"

	err := newTestProvisioner(&staticStore{pairs: []sshkey.Pair{{Name: "k1", PublicKey: "AAAA..."}}}, client).
		Provision(context.Background(), RuntimeIdentity{OwnerID: "user1", InfrastructureNamespace: "ns1", WorkspaceID: "ws1"})

	var infraErr *InfrastructureError
	require.ErrorAs(t, err, &infraErr)
	require.Equal(t, KindService, infraErr.Kind)
}

func TestProvisionClientFailure(t *testing.T) {
	log := zap.NewNop().Sugar()
	boom := errors.New("no kubeconfig for workspace")

	provisioner := NewProvisioner(
		testConfig(),
		sshkey.NewAcquirer(&staticStore{pairs: []sshkey.Pair{{Name: "k1", PublicKey: "AAAA..."}}}, log),
		func(workspaceID string) (ctrlruntimeclient.Client, error) {
			return nil, boom
		},
		log,
	)

	err := provisioner.Provision(context.Background(), RuntimeIdentity{OwnerID: "user1", InfrastructureNamespace: "ns1", WorkspaceID: "ws1"})
	require.ErrorIs(t, err, boom)

	var infraErr *InfrastructureError
	require.ErrorAs(t, err, &infraErr)
	require.Equal(t, KindClient, infraErr.Kind)
}

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

package workspace

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"k8c.io/async-storage/internal/asyncstorage"
	workspaceapi "k8c.io/async-storage/sdk/apis/workspace"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
)

const (
	ControllerName = "asyncstorage-workspace"
)

var errMissingOwner = errors.New("namespace has no owner annotation")

// Provisioner is satisfied by *asyncstorage.Provisioner.
type Provisioner interface {
	Provision(ctx context.Context, identity asyncstorage.RuntimeIdentity) error
}

type Reconciler struct {
	client      ctrlruntimeclient.Client
	log         *zap.SugaredLogger
	recorder    record.EventRecorder
	provisioner Provisioner
}

// Add creates a new controller and adds it to the given manager.
func Add(
	mgr manager.Manager,
	log *zap.SugaredLogger,
	numWorkers int,
	provisioner Provisioner,
) error {
	reconciler := &Reconciler{
		client:      mgr.GetClient(),
		log:         log.Named(ControllerName),
		recorder:    mgr.GetEventRecorderFor(ControllerName),
		provisioner: provisioner,
	}

	_, err := builder.ControllerManagedBy(mgr).
		Named(ControllerName).
		WithOptions(controller.Options{MaxConcurrentReconciles: numWorkers}).
		// only namespaces belonging to a workspace are of interest
		For(&corev1.Namespace{}, builder.WithPredicates(predicate.NewPredicateFuncs(isWorkspaceNamespace))).
		Build(reconciler)
	return err
}

func isWorkspaceNamespace(obj ctrlruntimeclient.Object) bool {
	_, ok := obj.GetLabels()[workspaceapi.WorkspaceIDLabel]
	return ok
}

func (r *Reconciler) Reconcile(ctx context.Context, request reconcile.Request) (reconcile.Result, error) {
	log := r.log.With("namespace", request.Name)
	log.Debug("Processing")

	ns := &corev1.Namespace{}
	if err := r.client.Get(ctx, request.NamespacedName, ns); err != nil {
		return reconcile.Result{}, ctrlruntimeclient.IgnoreNotFound(err)
	}

	// Async storage lives as long as the namespace, there is nothing to clean up.
	if ns.DeletionTimestamp != nil || ns.Status.Phase == corev1.NamespaceTerminating {
		return reconcile.Result{}, nil
	}

	if !isWorkspaceNamespace(ns) {
		return reconcile.Result{}, nil
	}

	identity, err := IdentityFromNamespace(ns)
	if err != nil {
		// retrying will not help until someone fixes the namespace, which
		// triggers a new reconciliation anyway
		log.Warnw("Cannot determine workspace identity", zap.Error(err))
		r.recorder.Event(ns, corev1.EventTypeWarning, "InvalidWorkspace", err.Error())
		return reconcile.Result{}, nil
	}

	if err := r.provisioner.Provision(ctx, identity); err != nil {
		r.recorder.Event(ns, corev1.EventTypeWarning, "ReconcilingError", err.Error())
		return reconcile.Result{}, err
	}

	return reconcile.Result{}, nil
}

// IdentityFromNamespace reads the runtime identity from the workspace labels
// and annotations of a namespace.
func IdentityFromNamespace(ns *corev1.Namespace) (asyncstorage.RuntimeIdentity, error) {
	workspaceID := ns.Labels[workspaceapi.WorkspaceIDLabel]
	if workspaceID == "" {
		return asyncstorage.RuntimeIdentity{}, fmt.Errorf("namespace has no %s label", workspaceapi.WorkspaceIDLabel)
	}

	owner := ns.Annotations[workspaceapi.OwnerIDAnnotation]
	if owner == "" {
		return asyncstorage.RuntimeIdentity{}, fmt.Errorf("%w %s", errMissingOwner, workspaceapi.OwnerIDAnnotation)
	}

	return asyncstorage.RuntimeIdentity{
		OwnerID:                 owner,
		InfrastructureNamespace: ns.Name,
		WorkspaceID:             workspaceID,
	}, nil
}

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
	"context"
	"flag"
	"fmt"
	golog "log"

	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"k8c.io/async-storage/internal/asyncstorage"
	"k8c.io/async-storage/internal/controller/workspace"
	agentlog "k8c.io/async-storage/internal/log"
	"k8c.io/async-storage/internal/sshkey"
	"k8c.io/async-storage/internal/version"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrlruntime "sigs.k8s.io/controller-runtime"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	ctrlruntimelog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
)

func main() {
	ctx := ctrlruntime.SetupSignalHandler()

	opts := NewOptions()
	opts.AddFlags(pflag.CommandLine)

	// ctrl-runtime will have added its --kubeconfig to Go's flag set
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	if err := opts.Validate(); err != nil {
		golog.Fatalf("Invalid command line: %v", err)
	}

	log := agentlog.NewFromOptions(opts.LogOptions)

	if err := opts.Complete(); err != nil {
		log.With(zap.Error(err)).Fatal("Invalid command line")
	}

	sugar := log.Sugar()

	// set the logger used by sigs.k8s.io/controller-runtime
	ctrlruntimelog.SetLogger(zapr.NewLogger(log.WithOptions(zap.AddCallerSkip(1))))

	if err := run(ctx, sugar, opts); err != nil {
		sugar.Fatalw("Async storage agent has encountered an error", zap.Error(err))
	}
}

func run(ctx context.Context, log *zap.SugaredLogger, opts *Options) error {
	v := version.NewAppVersion()
	log.With(
		"version", v.GitVersion,
		"namespace", opts.Namespace,
		"image", opts.StorageConfig.Image,
		"pvc", opts.StorageConfig.PVCName,
	).Info("Moin, I'm the async storage agent")

	mgr, err := setupManager(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to setup manager: %w", err)
	}

	// The provisioner lists Pods, ConfigMaps and Services in single namespaces
	// only; an uncached client avoids informers on all of them cluster-wide.
	client, err := ctrlruntimeclient.New(mgr.GetConfig(), ctrlruntimeclient.Options{
		Scheme: mgr.GetScheme(),
		Mapper: mgr.GetRESTMapper(),
	})
	if err != nil {
		return fmt.Errorf("failed to create uncached client: %w", err)
	}

	keyStore := sshkey.NewSecretStore(client, opts.Namespace, opts.SSHKeyBits)
	provisioner := asyncstorage.NewProvisioner(
		opts.StorageConfig,
		sshkey.NewAcquirer(keyStore, log),
		asyncstorage.StaticClient(client),
		log,
	)

	if err := workspace.Add(mgr, log, opts.ControllerOptions.WorkerCount, provisioner); err != nil {
		return fmt.Errorf("failed to add workspace controller: %w", err)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		return fmt.Errorf("failed to add health check: %w", err)
	}

	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		return fmt.Errorf("failed to add readiness check: %w", err)
	}

	log.Info("Starting async storage agent…")

	return mgr.Start(ctx)
}

func setupManager(ctx context.Context, opts *Options) (manager.Manager, error) {
	scheme := runtime.NewScheme()

	if err := corev1.AddToScheme(scheme); err != nil {
		return nil, fmt.Errorf("failed to register scheme %s: %w", corev1.SchemeGroupVersion, err)
	}

	return manager.New(ctrlruntime.GetConfigOrDie(), manager.Options{
		Scheme: scheme,
		BaseContext: func() context.Context {
			return ctx
		},
		Metrics: metricsserver.Options{
			BindAddress: opts.ControllerOptions.MetricsAddr,
		},
		HealthProbeBindAddress:  opts.ControllerOptions.HealthAddr,
		LeaderElection:          opts.ControllerOptions.EnableLeaderElection,
		LeaderElectionID:        "async-storage-agent",
		LeaderElectionNamespace: opts.Namespace,
	})
}

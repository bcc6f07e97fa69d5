package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/strata-io/strata/internal/columnar"
	"github.com/strata-io/strata/internal/config"
	s3store "github.com/strata-io/strata/internal/filestore/s3"
	"github.com/strata-io/strata/internal/logging"
	"github.com/strata-io/strata/internal/metadata"
	"github.com/strata-io/strata/internal/metrics"
	"github.com/strata-io/strata/internal/reconcile"
	"github.com/strata-io/strata/internal/staging"
)

func runReconcile(args []string) {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	doDelete := fs.Bool("delete", false, "Delete the unreferenced storage artifacts (default: report only)")
	force := fs.Bool("force", false, "Warning: drop ALL staging tables matching the prefix, regardless of liveness")
	deploymentID := fs.String("deployment-id", "", "Override deployment identity")
	metricsAddr := fs.String("metrics-addr", "", "Override metrics endpoint address (e.g., :9090)")

	fs.Usage = func() {
		fmt.Println(`Usage: stratagc reconcile [options]

Compute drop candidates for columnar tables, working directories and
staging tables, then report them (default) or delete them (--delete).

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *deploymentID != "" {
		cfg.Reconciler.DeploymentID = *deploymentID
	}
	if *metricsAddr != "" {
		cfg.Observability.MetricsAddr = *metricsAddr
	}

	logger := logging.Configure(cfg.Observability.LogLevel, cfg.Observability.LogFormat)

	ctx := context.Background()

	metaStore, err := metadata.NewRestStore(metadata.RestStoreConfig{
		URI:   cfg.Metadata.URI,
		Token: cfg.Metadata.Token,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create metadata client: %v\n", err)
		os.Exit(1)
	}

	columnarClient, err := columnar.NewRestClient(columnar.RestClientConfig{
		URI:   cfg.Columnar.URI,
		Token: cfg.Columnar.Token,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create columnar client: %v\n", err)
		os.Exit(1)
	}

	fileStore, err := s3store.New(ctx, s3store.Config{
		Bucket:          cfg.FileStore.Bucket,
		Region:          cfg.FileStore.Region,
		Endpoint:        cfg.FileStore.Endpoint,
		AccessKeyID:     cfg.FileStore.AccessKey,
		SecretAccessKey: cfg.FileStore.SecretKey,
		UsePathStyle:    cfg.FileStore.UsePathStyle,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create filestore client: %v\n", err)
		os.Exit(1)
	}
	defer fileStore.Close()

	stagingClient, err := staging.NewSQLClient(staging.SQLClientConfig{
		Addr:     cfg.Staging.Addr,
		User:     cfg.Staging.User,
		Password: cfg.Staging.Password,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create staging client: %v\n", err)
		os.Exit(1)
	}
	defer stagingClient.Close()

	mode := reconcile.ModeReport
	if *doDelete {
		mode = reconcile.ModeDelete
	}

	reconciler := reconcile.New(metaStore, columnarClient, fileStore, stagingClient, reconcile.Options{
		Mode:               mode,
		Force:              *force,
		TablePrefix:        cfg.Reconciler.TablePrefix,
		DeploymentID:       cfg.Reconciler.DeploymentID,
		WorkingRoot:        cfg.Reconciler.WorkingRoot,
		JobDirPrefix:       cfg.Reconciler.JobDirPrefix,
		StagingDatabase:    cfg.Staging.Database,
		StagingTablePrefix: cfg.Reconciler.StagingTablePrefix,
		DeleteTimeout:      time.Duration(cfg.Reconciler.DeleteTimeoutMinutes) * time.Minute,
	}, logger)

	if cfg.Observability.MetricsAddr != "" {
		reconciler.SetMetrics(metrics.NewReconcileMetrics())
		srv := metrics.NewServer(cfg.Observability.MetricsAddr)
		if err := srv.Start(); err != nil {
			logger.Warnf("failed to start metrics endpoint", map[string]any{
				"addr":  cfg.Observability.MetricsAddr,
				"error": err.Error(),
			})
		} else {
			defer srv.Close()
		}
	}

	report, err := reconciler.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconciliation aborted: %v\n", err)
		os.Exit(1)
	}

	if report.Degraded() {
		logger.Warn("reconciliation finished degraded; some work was skipped")
	}
}

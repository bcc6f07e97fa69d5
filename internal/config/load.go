package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load returns the default configuration with environment overrides
// applied. Used when no config file is given.
func Load() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads a YAML config file over the defaults, then applies
// environment overrides. Precedence, lowest to highest: defaults, file,
// environment (CLI flags override on top, in the command layer).
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the reconciler cannot run without.
func (c *Config) Validate() error {
	if c.Reconciler.DeploymentID == "" {
		return errors.New("config: reconciler.deploymentId is required")
	}
	if c.Reconciler.TablePrefix == "" {
		return errors.New("config: reconciler.tablePrefix must not be empty")
	}
	if c.Reconciler.WorkingRoot == "" {
		return errors.New("config: reconciler.workingRoot must not be empty")
	}
	if c.Reconciler.JobDirPrefix == "" {
		return errors.New("config: reconciler.jobDirPrefix must not be empty")
	}
	if c.Reconciler.StagingTablePrefix == "" {
		return errors.New("config: reconciler.stagingTablePrefix must not be empty")
	}
	if c.Reconciler.DeleteTimeoutMinutes <= 0 {
		return errors.New("config: reconciler.deleteTimeoutMinutes must be positive")
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Metadata.URI, "STRATA_METADATA_URI")
	setString(&c.Metadata.Token, "STRATA_METADATA_TOKEN")

	setString(&c.Columnar.URI, "STRATA_COLUMNAR_URI")
	setString(&c.Columnar.Token, "STRATA_COLUMNAR_TOKEN")

	setString(&c.FileStore.Endpoint, "STRATA_S3_ENDPOINT")
	setString(&c.FileStore.Bucket, "STRATA_S3_BUCKET")
	setString(&c.FileStore.Region, "STRATA_S3_REGION")
	setString(&c.FileStore.AccessKey, "STRATA_S3_ACCESS_KEY")
	setString(&c.FileStore.SecretKey, "STRATA_S3_SECRET_KEY")
	setBool(&c.FileStore.UsePathStyle, "STRATA_S3_PATH_STYLE")

	setString(&c.Staging.Addr, "STRATA_STAGING_ADDR")
	setString(&c.Staging.User, "STRATA_STAGING_USER")
	setString(&c.Staging.Password, "STRATA_STAGING_PASSWORD")
	setString(&c.Staging.Database, "STRATA_STAGING_DATABASE")

	setString(&c.Reconciler.DeploymentID, "STRATA_DEPLOYMENT_ID")
	setString(&c.Reconciler.TablePrefix, "STRATA_TABLE_PREFIX")
	setString(&c.Reconciler.WorkingRoot, "STRATA_WORKING_ROOT")
	setString(&c.Reconciler.JobDirPrefix, "STRATA_JOB_DIR_PREFIX")
	setString(&c.Reconciler.StagingTablePrefix, "STRATA_STAGING_TABLE_PREFIX")
	setInt(&c.Reconciler.DeleteTimeoutMinutes, "STRATA_DELETE_TIMEOUT_MINUTES")

	setString(&c.Observability.MetricsAddr, "STRATA_METRICS_ADDR")
	setString(&c.Observability.LogLevel, "STRATA_LOG_LEVEL")
	setString(&c.Observability.LogFormat, "STRATA_LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

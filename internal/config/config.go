// Package config provides configuration loading and validation for the
// reconciler. Supports YAML files with environment variable overrides.
package config

// Config holds all configuration for a reconciler run.
type Config struct {
	Metadata      MetadataConfig      `yaml:"metadata"`
	Columnar      ColumnarConfig      `yaml:"columnar"`
	FileStore     FileStoreConfig     `yaml:"fileStore"`
	Staging       StagingConfig       `yaml:"staging"`
	Reconciler    ReconcilerConfig    `yaml:"reconciler"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MetadataConfig locates the warehouse metadata admin API.
type MetadataConfig struct {
	URI   string `yaml:"uri" env:"STRATA_METADATA_URI"`
	Token string `yaml:"token" env:"STRATA_METADATA_TOKEN"`
}

// ColumnarConfig locates the columnar store admin API.
type ColumnarConfig struct {
	URI   string `yaml:"uri" env:"STRATA_COLUMNAR_URI"`
	Token string `yaml:"token" env:"STRATA_COLUMNAR_TOKEN"`
}

// FileStoreConfig locates the S3-compatible working filesystem.
type FileStoreConfig struct {
	Endpoint     string `yaml:"endpoint" env:"STRATA_S3_ENDPOINT"`
	Bucket       string `yaml:"bucket" env:"STRATA_S3_BUCKET"`
	Region       string `yaml:"region" env:"STRATA_S3_REGION"`
	AccessKey    string `yaml:"accessKey" env:"STRATA_S3_ACCESS_KEY"`
	SecretKey    string `yaml:"secretKey" env:"STRATA_S3_SECRET_KEY"`
	UsePathStyle bool   `yaml:"usePathStyle" env:"STRATA_S3_PATH_STYLE"`
}

// StagingConfig locates the staging database.
type StagingConfig struct {
	Addr     string `yaml:"addr" env:"STRATA_STAGING_ADDR"`
	User     string `yaml:"user" env:"STRATA_STAGING_USER"`
	Password string `yaml:"password" env:"STRATA_STAGING_PASSWORD"`
	Database string `yaml:"database" env:"STRATA_STAGING_DATABASE"`
}

// ReconcilerConfig carries the naming conventions and deletion policy.
type ReconcilerConfig struct {
	// DeploymentID is this deployment's identity, matched against the
	// owner tag of columnar tables on the shared cluster.
	DeploymentID string `yaml:"deploymentId" env:"STRATA_DEPLOYMENT_ID"`

	TablePrefix        string `yaml:"tablePrefix" env:"STRATA_TABLE_PREFIX"`
	WorkingRoot        string `yaml:"workingRoot" env:"STRATA_WORKING_ROOT"`
	JobDirPrefix       string `yaml:"jobDirPrefix" env:"STRATA_JOB_DIR_PREFIX"`
	StagingTablePrefix string `yaml:"stagingTablePrefix" env:"STRATA_STAGING_TABLE_PREFIX"`

	// DeleteTimeoutMinutes bounds each columnar-table deletion.
	DeleteTimeoutMinutes int `yaml:"deleteTimeoutMinutes" env:"STRATA_DELETE_TIMEOUT_MINUTES"`
}

// ObservabilityConfig configures logging and the optional metrics endpoint.
type ObservabilityConfig struct {
	// MetricsAddr, when set, exposes /metrics for the duration of the run.
	MetricsAddr string `yaml:"metricsAddr" env:"STRATA_METRICS_ADDR"`
	LogLevel    string `yaml:"logLevel" env:"STRATA_LOG_LEVEL"`
	LogFormat   string `yaml:"logFormat" env:"STRATA_LOG_FORMAT"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		FileStore: FileStoreConfig{
			Region: "us-east-1",
		},
		Staging: StagingConfig{
			Database: "strata_staging",
		},
		Reconciler: ReconcilerConfig{
			TablePrefix:          "STRATA_",
			WorkingRoot:          "/strata",
			JobDirPrefix:         "strata-",
			StagingTablePrefix:   "strata_intermediate_",
			DeleteTimeoutMinutes: 10,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

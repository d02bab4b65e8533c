// Package config handles runtime settings for supplytrack: defaults, an
// optional key=value database config file, and command-line flags.
package config

import "supplytrack/internal/common"

// Config holds runtime settings.
//
// Fields:
//   - DataDir: directory for snapshot files, the audit log, and reports.
//   - DBConfigPath: path to the database config file; a missing or
//     incomplete file means the database is skipped entirely.
//   - AuditLogFile / ReportFile: file names created under DataDir.
//   - MaxItems / MaxRequests: in-memory collection ceilings.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible archive.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings; the
//     archive is enabled only when bucket and endpoint are both set.
type Config struct {
	DataDir        string
	DBConfigPath   string
	AuditLogFile   string
	ReportFile     string
	MaxItems       int
	MaxRequests    int
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with the stand-alone defaults: everything in
// the working directory, no database, no offsite archive.
func (c *Config) LoadDefaults() {
	c.DataDir = "."
	c.DBConfigPath = "db_config.conf"
	c.AuditLogFile = "equipment.log"
	c.ReportFile = "inventory_report.txt"
	c.MaxItems = common.DefaultMaxItems
	c.MaxRequests = common.DefaultMaxRequests
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config by applying defaults and then overlaying values
// from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)
	return cfg
}

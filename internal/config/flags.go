package config

import (
	"flag"
	"os"

	"supplytrack/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   data directory for snapshots, logs, and reports
//	-c string   path to the database config file
//	-i int      equipment capacity
//	-r int      supply request capacity
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-c", "-i", "-r", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.DBConfigPath, "c", config.DBConfigPath, "database config file")
	fs.IntVar(&config.MaxItems, "i", config.MaxItems, "equipment capacity")
	fs.IntVar(&config.MaxRequests, "r", config.MaxRequests, "supply request capacity")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

// S3Enabled reports whether the offsite archive is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3BaseEndpoint != ""
}

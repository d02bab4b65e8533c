package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

// DBConfig holds PostgreSQL connection settings read from the key=value
// config file (host, port, dbname, user, password).
type DBConfig struct {
	Host     string
	Port     string
	DBName   string
	User     string
	Password string
}

var requiredDBKeys = []string{"host", "port", "dbname", "user", "password"}

// LoadDBConfig reads the key=value file at path. A missing file, an
// unreadable file, or any missing key returns nil: the caller treats nil as
// "run without a database". The error return carries the reason for logging.
func LoadDBConfig(path string) (*DBConfig, error) {
	kv, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("db config %s: %w", path, err)
	}

	for _, k := range requiredDBKeys {
		if kv[k] == "" {
			return nil, fmt.Errorf("db config %s: missing key %q", path, k)
		}
	}

	return &DBConfig{
		Host:     kv["host"],
		Port:     kv["port"],
		DBName:   kv["dbname"],
		User:     kv["user"],
		Password: kv["password"],
	}, nil
}

// DSN renders the libpq keyword form accepted by the pgx stdlib driver.
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s",
		c.Host, c.Port, c.DBName, c.User, c.Password)
}

package sql

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted for connection parameters that are not
// set explicitly. A .env file in the working directory is loaded first.
const (
	EnvHost     = "DATABASE_HOST"
	EnvDatabase = "DATABASE_NAME"
	EnvUser     = "DATABASE_USER"
	EnvPassword = "DATABASE_PASS"
	EnvPort     = "DATABASE_PORT"
)

var loadEnvOnce sync.Once

// loadEnv loads a .env file if one exists. Missing files are not an error.
func loadEnv() {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Params holds connection parameters for a single connection. Zero-value
// fields fall back to the DATABASE_* environment variables; parameters
// missing from both are passed through empty and left for the driver to
// reject if it requires them.
type Params struct {
	Host     string `yaml:"host"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Port     string `yaml:"port"`
}

// ResolveParams returns p with every empty field replaced by its
// environment variable. Explicit values always win.
func ResolveParams(p Params) Params {
	loadEnv()
	return Params{
		Host:     firstNonEmpty(p.Host, os.Getenv(EnvHost)),
		Database: firstNonEmpty(p.Database, os.Getenv(EnvDatabase)),
		User:     firstNonEmpty(p.User, os.Getenv(EnvUser)),
		Password: firstNonEmpty(p.Password, os.Getenv(EnvPassword)),
		Port:     firstNonEmpty(p.Port, os.Getenv(EnvPort)),
	}
}

// ParamsFromFile reads connection parameters from a YAML file. The result
// is not resolved against the environment; pass it to Open for that.
func ParamsFromFile(path string) (Params, error) {
	var p Params
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("dialect/sql: read params file: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("dialect/sql: parse params file: %w", err)
	}
	return p, nil
}

// DSN renders the parameters as a lib/pq connection string. Empty
// parameters are omitted. A non-empty searchPath is applied through the
// server options so the session default schema is set at connect time.
func (p Params) DSN(searchPath string) string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+quoteDSNValue(value))
		}
	}
	add("host", p.Host)
	add("port", p.Port)
	add("dbname", p.Database)
	add("user", p.User)
	add("password", p.Password)
	if searchPath != "" {
		parts = append(parts, fmt.Sprintf("options='-c search_path=%s'", searchPath))
	}
	return strings.Join(parts, " ")
}

// quoteDSNValue quotes a DSN value when it contains characters that would
// break keyword/value parsing.
func quoteDSNValue(s string) string {
	if !strings.ContainsAny(s, ` '\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

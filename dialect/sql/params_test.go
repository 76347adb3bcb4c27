package sql

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveParamsFromEnv(t *testing.T) {
	t.Setenv(EnvHost, "db.internal")
	t.Setenv(EnvDatabase, "app")
	t.Setenv(EnvUser, "svc")
	t.Setenv(EnvPassword, "secret")
	t.Setenv(EnvPort, "5433")

	p := ResolveParams(Params{})
	assert.Equal(t, Params{
		Host:     "db.internal",
		Database: "app",
		User:     "svc",
		Password: "secret",
		Port:     "5433",
	}, p)
}

func TestResolveParamsExplicitWins(t *testing.T) {
	t.Setenv(EnvHost, "db.internal")
	t.Setenv(EnvDatabase, "app")

	p := ResolveParams(Params{Host: "localhost"})
	assert.Equal(t, "localhost", p.Host, "explicit value wins over the environment")
	assert.Equal(t, "app", p.Database, "empty fields fall back to the environment")
}

func TestResolveParamsMissing(t *testing.T) {
	t.Setenv(EnvHost, "")
	t.Setenv(EnvDatabase, "")
	t.Setenv(EnvUser, "")
	t.Setenv(EnvPassword, "")
	t.Setenv(EnvPort, "")

	p := ResolveParams(Params{})
	assert.Equal(t, Params{}, p, "parameters missing from both sources stay empty")
}

func TestParamsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"host: localhost\ndatabase: app\nuser: svc\npassword: secret\nport: \"5432\"\n",
	), 0o600))

	p, err := ParamsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Params{
		Host:     "localhost",
		Database: "app",
		User:     "svc",
		Password: "secret",
		Port:     "5432",
	}, p)
}

func TestParamsFromFileErrors(t *testing.T) {
	_, err := ParamsFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read params file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: [unclosed"), 0o600))
	_, err = ParamsFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse params file")
}

func TestDSN(t *testing.T) {
	p := Params{
		Host:     "localhost",
		Database: "app",
		User:     "svc",
		Password: "secret",
		Port:     "5432",
	}
	assert.Equal(t, "host=localhost port=5432 dbname=app user=svc password=secret", p.DSN(""))
	assert.Equal(t,
		"host=localhost port=5432 dbname=app user=svc password=secret options='-c search_path=tenant_a'",
		p.DSN("tenant_a"))
}

func TestDSNOmitsEmpty(t *testing.T) {
	p := Params{Host: "localhost", Database: "app"}
	assert.Equal(t, "host=localhost dbname=app", p.DSN(""))
}

func TestDSNQuoting(t *testing.T) {
	p := Params{Host: "localhost", Password: "p w'd\\x"}
	assert.Equal(t, `host=localhost password='p w\'d\\x'`, p.DSN(""))
}

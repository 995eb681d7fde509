package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_SQLiteDefaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]interface{}{
		"DB_DRIVER":  "SQLite",
		"JWT_SECRET": "segredo",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "ingestion.db", cfg.SQLitePath)
	assert.Equal(t, []string{"guest"}, cfg.RestrictedRoles)
	assert.Equal(t, int64(20)<<20, cfg.MaxFileSizeBytes())
	assert.Equal(t, 500, cfg.WriteBatchSize)
	assert.True(t, cfg.DBAutoMigrate)
}

func TestFromViper_PostgresRequiresCredentials(t *testing.T) {
	_, err := fromViper(newTestViper(map[string]interface{}{
		"JWT_SECRET": "segredo",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")
}

func TestFromViper_RequiresJWTSecret(t *testing.T) {
	_, err := fromViper(newTestViper(map[string]interface{}{
		"DB_DRIVER": "sqlite",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromViper_RestrictedRolesList(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]interface{}{
		"DB_DRIVER":        "sqlite",
		"JWT_SECRET":       "segredo",
		"RESTRICTED_ROLES": " guest, visitante ,,",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"guest", "visitante"}, cfg.RestrictedRoles)
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "dash", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=dash sslmode=disable", cfg.GetDatabaseURL())
}

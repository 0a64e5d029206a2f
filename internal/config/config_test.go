package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvMasterAddr, "master:8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8085", cfg.ListenAddr)
	assert.Equal(t, "master:8080", cfg.DefaultMasterAddr)
	assert.Equal(t, 10*time.Second, cfg.MasterTimeout)
	assert.Equal(t, 30*time.Second, cfg.StatementTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadClusterMasters(t *testing.T) {
	t.Setenv(EnvClusterMasters, "1=master-a:8080, 2=master-b:8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "master-a:8080", cfg.ClusterMasters[1])
	assert.Equal(t, "master-b:8080", cfg.ClusterMasters[2])
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv(EnvMasterTimeout, "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRequiresMaster(t *testing.T) {
	cfg := &Config{ListenAddr: ":8085", MasterTimeout: time.Second, DialTimeout: time.Second, StatementTimeout: time.Second}
	assert.Error(t, cfg.Validate())

	cfg.DefaultMasterAddr = "master:8080"
	assert.NoError(t, cfg.Validate())
}

func TestMasterAddrFallback(t *testing.T) {
	cfg := &Config{
		DefaultMasterAddr: "default:8080",
		ClusterMasters:    map[int64]string{7: "seven:8080"},
	}

	addr, ok := cfg.MasterAddr(7)
	assert.True(t, ok)
	assert.Equal(t, "seven:8080", addr)

	addr, ok = cfg.MasterAddr(99)
	assert.True(t, ok)
	assert.Equal(t, "default:8080", addr)

	cfg.DefaultMasterAddr = ""
	_, ok = cfg.MasterAddr(99)
	assert.False(t, ok)
}

func TestParseClusterMastersMalformed(t *testing.T) {
	_, err := ParseClusterMasters("1master:8080")
	assert.Error(t, err)

	_, err = ParseClusterMasters("x=master:8080")
	assert.Error(t, err)
}

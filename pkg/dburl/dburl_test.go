package dburl

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWellFormed(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		scheme string
		host   string
		port   int
		dbName string
	}{
		{"mysql with database", "jdbc:mysql://10.0.0.5:3306/sales", "jdbc:mysql", "10.0.0.5", 3306, "sales"},
		{"mysql without database", "jdbc:mysql://db.internal:3306", "jdbc:mysql", "db.internal", 3306, ""},
		{"hive", "jdbc:hive2://warehouse:10000/analytics", "jdbc:hive2", "warehouse", 10000, "analytics"},
		{"clickhouse", "jdbc:clickhouse://localhost:8123/events", "jdbc:clickhouse", "localhost", 8123, "events"},
		{"query params stripped from database", "jdbc:mysql://10.0.0.5:3306/sales?useSSL=false", "jdbc:mysql", "10.0.0.5", 3306, "sales"},
		{"port boundaries low", "jdbc:mysql://h:1/d", "jdbc:mysql", "h", 1, "d"},
		{"port boundaries high", "jdbc:mysql://h:65535/d", "jdbc:mysql", "h", 65535, "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Parse(tt.raw, tt.scheme)
			require.NoError(t, err)
			assert.Equal(t, tt.host, desc.Host)
			assert.Equal(t, tt.port, desc.Port)
			assert.Equal(t, tt.dbName, desc.DatabaseName)
			assert.Equal(t, tt.scheme, desc.Scheme)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		scheme  string
		wantErr error
	}{
		{"wrong scheme", "jdbc:postgresql://h:5432/d", "jdbc:mysql", ErrMalformedScheme},
		{"empty string", "", "jdbc:mysql", ErrMalformedScheme},
		{"no authority", "jdbc:mysql://", "jdbc:mysql", ErrMalformedAuthority},
		{"no authority with path", "jdbc:mysql:///sales", "jdbc:mysql", ErrMalformedAuthority},
		{"missing port", "jdbc:mysql://host/d", "jdbc:mysql", ErrMalformedHostPort},
		{"too many colons", "jdbc:mysql://host:3306:extra/d", "jdbc:mysql", ErrMalformedHostPort},
		{"empty host", "jdbc:mysql://:3306/d", "jdbc:mysql", ErrMalformedHostPort},
		{"port not numeric", "jdbc:mysql://host:abc/d", "jdbc:mysql", ErrInvalidPort},
		{"port zero", "jdbc:mysql://host:0/d", "jdbc:mysql", ErrInvalidPort},
		{"port negative", "jdbc:mysql://host:-1/d", "jdbc:mysql", ErrInvalidPort},
		{"port too large", "jdbc:mysql://host:65536/d", "jdbc:mysql", ErrInvalidPort},
		{"port empty", "jdbc:mysql://host:/d", "jdbc:mysql", ErrInvalidPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Parse(tt.raw, tt.scheme)
			assert.Nil(t, desc)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseAllowedHosts(t *testing.T) {
	allowed := regexp.MustCompile(`^(localhost|192\.168\.1\.\d{1,3}|10\.0\.0\.\d{1,3})$`)

	t.Run("host in allow-list", func(t *testing.T) {
		desc, err := Parse("jdbc:clickhouse://10.0.0.12:8123/x", "jdbc:clickhouse", WithAllowedHosts(allowed))
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.12", desc.Host)
	})

	t.Run("localhost allowed", func(t *testing.T) {
		_, err := Parse("jdbc:clickhouse://localhost:8123/x", "jdbc:clickhouse", WithAllowedHosts(allowed))
		assert.NoError(t, err)
	})

	t.Run("host outside allow-list", func(t *testing.T) {
		desc, err := Parse("jdbc:clickhouse://203.0.113.9:8123/x", "jdbc:clickhouse", WithAllowedHosts(allowed))
		assert.Nil(t, desc)
		assert.ErrorIs(t, err, ErrHostNotAllowed)
	})

	t.Run("allow-list does not apply without option", func(t *testing.T) {
		_, err := Parse("jdbc:clickhouse://203.0.113.9:8123/x", "jdbc:clickhouse")
		assert.NoError(t, err)
	})
}

func TestDescriptorAddress(t *testing.T) {
	desc, err := Parse("jdbc:mysql://10.0.0.5:3306/sales", "jdbc:mysql")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:3306", desc.Address())
}

package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/ubo/internal/config"
)

func TestRecordAccessors(t *testing.T) {
	r := Record{
		"person":  "p1",
		"share":   0.25,
		"whole":   int64(1),
		"small":   2,
		"wrong":   true,
		"missing": nil,
	}

	assert.Equal(t, "p1", GetString(r, "person"))
	assert.Equal(t, "", GetString(r, "share"))
	assert.Equal(t, "", GetString(r, "nope"))

	assert.Equal(t, 0.25, GetFloat(r, "share"))
	assert.Equal(t, 1.0, GetFloat(r, "whole"))
	assert.Equal(t, 2.0, GetFloat(r, "small"))
	assert.Equal(t, 0.0, GetFloat(r, "wrong"))
	assert.Equal(t, 0.0, GetFloat(r, "missing"))
}

func TestConfigFromEnv(t *testing.T) {
	config.ResetEnv()
	t.Setenv("NEO4J_URI", "bolt://graph:7687")
	t.Setenv("NEO4J_USER", "neo")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("NEO4J_DATABASE", "")
	t.Cleanup(config.ResetEnv)

	cfg := ConfigFromEnv()

	assert.Equal(t, Config{URI: "bolt://graph:7687", Username: "neo", Password: "secret", Database: "memgraph"}, cfg)
	assert.Equal(t, "bolt://other:7687", cfg.WithURI("bolt://other:7687").URI)
	assert.Equal(t, "bolt://graph:7687", cfg.WithURI("").URI)
}

func TestNewMemgraphRejectsBadScheme(t *testing.T) {
	_, err := NewMemgraph(Config{URI: "ftp://nowhere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create driver")
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("read: connection reset by peer"), true},
		{errors.New("lookup memgraph: no such host"), true},
		{errors.New("i/o timeout"), true},
		{errors.New("unexpected EOF"), true},
		{errors.New("syntax error in query"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsConnectionError(tt.err), "%v", tt.err)
	}
}

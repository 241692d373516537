package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ghmirror/internal/config"
)

func TestMirrorURL(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
	}{
		{"loopback", "127.0.0.1:8080", "http://127.0.0.1:8080/facebook/react"},
		{"bind all", "0.0.0.0:9000", "http://127.0.0.1:9000/facebook/react"},
		{"empty host", ":7000", "http://127.0.0.1:7000/facebook/react"},
		{"ipv6 any", "[::]:8080", "http://127.0.0.1:8080/facebook/react"},
		{"named host", "mirror.local:80", "http://mirror.local:80/facebook/react"},
		{"unparseable", "nonsense", "/facebook/react"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mirrorURL(tt.addr, "/facebook/react"))
		})
	}
}

func TestRootCmd_LoadsConfigFromFlags(t *testing.T) {
	t.Setenv("GHMIRROR_PER_PAGE", "40")

	root := newRootCmd()
	var got *config.Config
	inspect := &cobra.Command{
		Use: "inspect",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			got, err = configFrom(cmd)
			return err
		},
	}
	root.AddCommand(inspect)
	root.SetArgs([]string{"inspect", "--listen-addr", ":9999", "--cache-ttl", "30s"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	require.NoError(t, root.Execute())
	require.NotNil(t, got)
	assert.Equal(t, ":9999", got.ListenAddr)
	assert.Equal(t, 30*time.Second, got.CacheTTL)
	assert.Equal(t, 40, got.PerPage)
}

func TestRootCmd_RejectsInvalidConfig(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"serve", "--per-page", "500"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GHMIRROR_PER_PAGE")
}

func TestConfigFrom_NotLoaded(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(t.Context())

	_, err := configFrom(cmd)

	assert.Error(t, err)
}

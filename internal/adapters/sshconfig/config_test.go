package sshconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	tests := []struct {
		name string
		host string
		port int
		want string
	}{
		{name: "default port", host: "10.0.0.1", want: "10.0.0.1:830"},
		{name: "explicit port", host: "10.0.0.1", port: 2830, want: "10.0.0.1:2830"},
		{name: "host carries port", host: "csr1:8300", want: "csr1:8300"},
		{name: "explicit port wins", host: "csr1:8300", port: 22, want: "csr1:22"},
		{name: "ipv6", host: "2001:db8::1", port: 22, want: "[2001:db8::1]:22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Address(tt.host, tt.port, 830)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Address(" ", 22, 22)
	assert.ErrorContains(t, err, "device address is required")
}

func TestClientConfigPasswordInsecure(t *testing.T) {
	config, err := ClientConfig(Credentials{Username: "admin", Password: "secret", InsecureHostKey: true}, 5*time.Second)
	require.NoError(t, err)

	assert.Equal(t, "admin", config.User)
	assert.Len(t, config.Auth, 2)
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.NotNil(t, config.HostKeyCallback)
}

func TestClientConfigRequiresUserAndAuth(t *testing.T) {
	_, err := ClientConfig(Credentials{Password: "secret", InsecureHostKey: true}, time.Second)
	assert.ErrorContains(t, err, "ssh user is required")

	_, err = ClientConfig(Credentials{Username: "admin", InsecureHostKey: true}, time.Second)
	assert.ErrorContains(t, err, "password or key path is required")
}

func TestClientConfigKnownHosts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	config, err := ClientConfig(Credentials{Username: "admin", Password: "secret", KnownHostsPath: path}, time.Second)
	require.NoError(t, err)
	assert.NotNil(t, config.HostKeyCallback)

	_, err = ClientConfig(Credentials{Username: "admin", Password: "secret", KnownHostsPath: filepath.Join(t.TempDir(), "missing")}, time.Second)
	assert.ErrorContains(t, err, "load known hosts")
}

func TestClientConfigMissingKey(t *testing.T) {
	_, err := ClientConfig(Credentials{Username: "admin", KeyPath: filepath.Join(t.TempDir(), "id_ed25519"), InsecureHostKey: true}, time.Second)
	assert.ErrorContains(t, err, "load ssh key")
}

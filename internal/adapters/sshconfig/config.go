package sshconfig

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Credentials authenticate one channel. Each channel carries its own.
type Credentials struct {
	Username        string
	Password        string
	KeyPath         string
	Passphrase      string
	KnownHostsPath  string
	InsecureHostKey bool
}

func Address(host string, port int, defaultPort int) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("device address is required")
	}

	if _, _, err := net.SplitHostPort(host); err == nil {
		if port <= 0 {
			return host, nil
		}
		host, _, _ = net.SplitHostPort(host)
	}

	if port <= 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

// ClientConfig builds an ssh.ClientConfig offering key, password and
// keyboard-interactive auth in that order.
func ClientConfig(creds Credentials, timeout time.Duration) (*ssh.ClientConfig, error) {
	if strings.TrimSpace(creds.Username) == "" {
		return nil, fmt.Errorf("ssh user is required")
	}

	var auth []ssh.AuthMethod
	if creds.KeyPath != "" {
		signer, err := signer(creds.KeyPath, creds.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("load ssh key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if creds.Password != "" {
		password := creds.Password
		auth = append(auth,
			ssh.Password(password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		)
	}
	if len(auth) == 0 {
		return nil, fmt.Errorf("ssh password or key path is required for %s", creds.Username)
	}

	var hostKeyCallback ssh.HostKeyCallback
	if creds.InsecureHostKey {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	} else {
		callback, err := knownHostsCallback(creds.KnownHostsPath)
		if err != nil {
			return nil, err
		}
		hostKeyCallback = callback
	}

	return &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}, nil
}

func signer(path, passphrase string) (ssh.Signer, error) {
	privateKey, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if passphrase != "" {
		return ssh.ParsePrivateKeyWithPassphrase(privateKey, []byte(passphrase))
	}

	return ssh.ParsePrivateKey(privateKey)
}

func knownHostsCallback(path string) (ssh.HostKeyCallback, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("known hosts path not set and home dir unavailable")
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}

	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("load known hosts %s: %w", path, err)
	}
	return callback, nil
}

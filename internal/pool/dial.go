package pool

import (
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"scout/internal/config"
	"scout/internal/scerr"
)

// buildHostKeyCallback resolves the host-key verification strategy once at
// pool construction, per spec.md §4.3. The literal sentinel "none" disables
// verification outright (a startup warning is logged). Any other value
// names a known_hosts file that must already exist — a missing file is a
// fatal configuration error regardless of strict_host_key_checking, which
// only governs what happens on a key *mismatch*, not on a missing file.
func buildHostKeyCallback(cfg *config.Config) (ssh.HostKeyCallback, error) {
	if cfg.KnownHostsPath == "none" {
		log.Printf("[pool] WARNING: known_hosts verification disabled (KNOWN_HOSTS=none)")
		return ssh.InsecureIgnoreHostKey(), nil
	}

	checker, err := knownhosts.New(cfg.KnownHostsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scerr.Wrap(scerr.KindConfig, "known_hosts_path does not exist: "+cfg.KnownHostsPath, err)
		}
		return nil, scerr.Wrap(scerr.KindConfig, "load known_hosts", err)
	}

	if cfg.StrictHostKeyChecking {
		return checker, nil
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		if err := checker(hostname, remote, key); err != nil {
			log.Printf("[pool] host key mismatch for %s (accepted, strict checking disabled): %v", hostname, err)
		}
		return nil
	}, nil
}

// authMethod resolves the auth method for a catalog host: its own
// identity_file when set, otherwise the process-wide system key.
func (p *Pool) authMethod(host config.SSHHost) (ssh.AuthMethod, error) {
	if host.IdentityFile != "" {
		path := expandHome(host.IdentityFile)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, scerr.Wrap(scerr.KindConnect, "read identity file", err)
		}
		signer, err := ssh.ParsePrivateKey(raw)
		if err != nil {
			return nil, scerr.Wrap(scerr.KindConnect, "parse identity file", err)
		}
		return ssh.PublicKeys(signer), nil
	}

	signer, err := p.systemKey.signer()
	if err != nil {
		return nil, scerr.Wrap(scerr.KindConnect, "load system key", err)
	}
	return ssh.PublicKeys(signer), nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + strings.TrimPrefix(path, "~")
}

// dialAddress returns the dial target for a catalog host, redirecting
// localhost-classified hosts to the loopback interface per spec.md §4.2.
func dialAddress(host config.SSHHost) string {
	if host.IsLocalhost {
		return "127.0.0.1:22"
	}
	return fmt.Sprintf("%s:%d", host.Hostname, host.Port)
}

// defaultDial opens a new SSH connection for host. It runs outside the
// pool's meta-lock so concurrent dials to distinct hosts proceed in
// parallel. Tests substitute Pool.dialFunc to avoid real network I/O.
func (p *Pool) defaultDial(host config.SSHHost) (Session, error) {
	auth, err := p.authMethod(host)
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            host.User,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: p.hostKeyCallback,
		Timeout:         p.cfg.SSHConnectTimeout,
	}

	addr := dialAddress(host)
	conn, err := net.DialTimeout("tcp", addr, p.cfg.SSHConnectTimeout)
	if err != nil {
		return nil, scerr.Wrap(scerr.KindConnect, fmt.Sprintf("dial %s", addr), err)
	}
	_ = conn.SetDeadline(time.Now().Add(p.cfg.SSHConnectTimeout))

	ncc, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, scerr.Wrap(scerr.KindConnect, fmt.Sprintf("handshake %s", addr), err)
	}
	_ = conn.SetDeadline(time.Time{})

	client := ssh.NewClient(ncc, chans, reqs)
	override := ""
	if host.IsLocalhost {
		override = " (localhost override)"
	}
	log.Printf("[pool] dialed %s@%s (host=%s)%s", host.User, addr, host.Name, override)
	return newClientSession(client), nil
}

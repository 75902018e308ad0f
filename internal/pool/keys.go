package pool

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
)

const (
	productionKeyPath = "/data/id_ed25519"
	devKeyPath        = "./data/id_ed25519"
)

// systemKey is the identity used to dial a host whose catalog entry names
// no identity_file. It is generated once and reused across the process
// lifetime, the same fallback the teacher's KeyManager provides.
type systemKey struct {
	path string
}

func newSystemKey(path string) *systemKey {
	if path == "" {
		path = defaultSystemKeyPath()
	}
	return &systemKey{path: path}
}

func defaultSystemKeyPath() string {
	if stat, err := os.Stat("/data"); err == nil && stat.IsDir() {
		return productionKeyPath
	}
	return devKeyPath
}

// ensure generates the key pair on first use if it does not already exist.
func (k *systemKey) ensure() error {
	dir := filepath.Dir(k.path)
	if stat, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("pool: create key directory %s: %w", dir, err)
		}
		log.Printf("[pool] created system key directory %s", dir)
	} else if err != nil {
		return fmt.Errorf("pool: stat key directory %s: %w", dir, err)
	} else if !stat.IsDir() {
		return fmt.Errorf("pool: key path %s is not a directory", dir)
	}

	if _, err := os.Stat(k.path); os.IsNotExist(err) {
		log.Printf("[pool] generating system ed25519 key at %s", k.path)
		return k.generate()
	}
	return nil
}

func (k *systemKey) generate() error {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("pool: generate key: %w", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "scout")
	if err != nil {
		return fmt.Errorf("pool: marshal private key: %w", err)
	}
	if err := os.WriteFile(k.path, pem.EncodeToMemory(block), 0o600); err != nil {
		return fmt.Errorf("pool: write private key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return fmt.Errorf("pool: derive public key: %w", err)
	}
	line := fmt.Sprintf("%s %s scout\n", sshPub.Type(), base64.StdEncoding.EncodeToString(sshPub.Marshal()))
	if err := os.WriteFile(k.path+".pub", []byte(line), 0o644); err != nil {
		return fmt.Errorf("pool: write public key: %w", err)
	}
	return nil
}

// signer loads and parses the private key, generating it first if absent.
func (k *systemKey) signer() (ssh.Signer, error) {
	if err := k.ensure(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(k.path)
	if err != nil {
		return nil, fmt.Errorf("pool: read private key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("pool: parse private key: %w", err)
	}
	return signer, nil
}

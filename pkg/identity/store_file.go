package identity

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the identity as a PEM certificate and a PEM PKCS#1
// private key side by side on disk, written atomically (temp file then
// rename) so a crash mid-write never leaves a half-written identity that
// would otherwise force an unwanted regeneration.
type FileStore struct {
	CertPath string
	KeyPath  string
}

// NewFileStore returns a FileStore keeping "identity.crt" and "identity.key"
// under dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		CertPath: filepath.Join(dir, "identity.crt"),
		KeyPath:  filepath.Join(dir, "identity.key"),
	}
}

func (s *FileStore) Load() (*Identity, error) {
	certPEM, err := os.ReadFile(s.CertPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoIdentity
		}
		return nil, fmt.Errorf("identity: read cert: %w", err)
	}
	keyPEM, err := os.ReadFile(s.KeyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoIdentity
		}
		return nil, fmt.Errorf("identity: read key: %w", err)
	}

	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil {
		return nil, fmt.Errorf("identity: cert file is not valid PEM")
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("identity: parse stored certificate: %w", err)
	}

	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, fmt.Errorf("identity: key file is not valid PEM")
	}
	key, err := x509.ParsePKCS1PrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("identity: parse stored key: %w", err)
	}

	return &Identity{Certificate: cert, PrivateKey: key, Raw: certBlock.Bytes}, nil
}

func (s *FileStore) Save(id *Identity) error {
	if err := os.MkdirAll(filepath.Dir(s.CertPath), 0o700); err != nil {
		return fmt.Errorf("identity: create state dir: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: id.Raw})
	if err := writeFileAtomic(s.CertPath, certPEM, 0o644); err != nil {
		return fmt.Errorf("identity: write cert: %w", err)
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(id.PrivateKey)})
	if err := writeFileAtomic(s.KeyPath, keyPEM, 0o600); err != nil {
		return fmt.Errorf("identity: write key: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the same directory as path
// and renames it into place, so readers never observe a partial write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

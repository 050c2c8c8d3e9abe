package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeSelfSigned writes a self-signed certificate and key into dir and
// returns their paths. The certificate doubles as a CA.
func writeSelfSigned(t *testing.T, dir string) (string, string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		DNSNames:              []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600); err != nil {
		t.Fatal(err)
	}
	return certPath, keyPath
}

func TestNewServerTLSConfig(t *testing.T) {
	cert, key := writeSelfSigned(t, t.TempDir())

	cfg, err := NewServerTLSConfig(cert, key, "")
	if err != nil {
		t.Fatalf("NewServerTLSConfig() error = %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Errorf("certificates = %d, want 1", len(cfg.Certificates))
	}
	if cfg.ClientAuth != tls.NoClientCert {
		t.Errorf("ClientAuth = %v, want NoClientCert", cfg.ClientAuth)
	}

	cfg, err = NewServerTLSConfig(cert, key, cert)
	if err != nil {
		t.Fatalf("NewServerTLSConfig() with CA error = %v", err)
	}
	if cfg.ClientAuth != tls.RequireAndVerifyClientCert || cfg.ClientCAs == nil {
		t.Error("client verification not enabled with CA file")
	}
}

func TestNewServerTLSConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	cert, key := writeSelfSigned(t, dir)
	garbage := filepath.Join(dir, "garbage.pem")
	_ = os.WriteFile(garbage, []byte("not a cert"), 0o600)

	tests := []struct {
		name          string
		cert, key, ca string
	}{
		{"empty cert", "", key, ""},
		{"missing key", cert, filepath.Join(dir, "nope.pem"), ""},
		{"bad ca", cert, key, garbage},
		{"missing ca", cert, key, filepath.Join(dir, "nope.pem")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewServerTLSConfig(tt.cert, tt.key, tt.ca); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewClientTLSConfig(t *testing.T) {
	cert, key := writeSelfSigned(t, t.TempDir())

	cfg, err := NewClientTLSConfig("", "", "")
	if err != nil {
		t.Fatalf("NewClientTLSConfig() error = %v", err)
	}
	if cfg.RootCAs != nil || len(cfg.Certificates) != 0 {
		t.Error("empty config should use system roots and no client cert")
	}

	cfg, err = NewClientTLSConfig(cert, key, cert)
	if err != nil {
		t.Fatalf("NewClientTLSConfig() error = %v", err)
	}
	if cfg.RootCAs == nil || len(cfg.Certificates) != 1 {
		t.Error("expected CA pool and client certificate")
	}

	if _, err := NewClientTLSConfig(cert, "", ""); err == nil {
		t.Error("expected error for cert without key")
	}
}

func TestConfigValidate(t *testing.T) {
	cert, key := writeSelfSigned(t, t.TempDir())

	if err := (Config{}).ValidateServer(); err != nil {
		t.Errorf("disabled ValidateServer() error = %v", err)
	}
	if err := (Config{Enabled: true, CertFile: cert}).ValidateServer(); err == nil {
		t.Error("ValidateServer() expected error without key")
	}
	if err := (Config{Enabled: true, CertFile: cert, KeyFile: key}).ValidateServer(); err != nil {
		t.Errorf("ValidateServer() error = %v", err)
	}
	if err := (Config{Enabled: true}).ValidateClient(); err != nil {
		t.Errorf("ValidateClient() with system roots error = %v", err)
	}
	if err := (Config{Enabled: true, KeyFile: key}).ValidateClient(); err == nil {
		t.Error("ValidateClient() expected error for key without cert")
	}
	if err := (Config{Enabled: true, CAFile: "/does/not/exist"}).ValidateClient(); err == nil {
		t.Error("ValidateClient() expected error for missing CA")
	}
}

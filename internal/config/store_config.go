package config

import (
	"os"
	"path/filepath"
)

type StoreKind string

const (
	StoreFile   StoreKind = "file"
	StoreSQLite StoreKind = "sqlite"
	StoreMemory StoreKind = "memory"
)

type StoreConfig interface {
	GetStoreKind() StoreKind
	GetStorePath() string
	GetStorePassphrase() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetStoreKind() StoreKind {
	switch kind := StoreKind(GetEnv("CREDENTIAL_STORE", string(StoreFile))); kind {
	case StoreFile, StoreSQLite, StoreMemory:
		return kind
	default:
		return StoreFile
	}
}

// GetStorePath defaults to a file under the user's home directory.
func (s Store) GetStorePath() string {
	if path := GetEnv("CREDENTIAL_PATH", ""); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	name := "credentials.json"
	if s.GetStoreKind() == StoreSQLite {
		name = "credentials.db"
	}
	return filepath.Join(home, ".studysphere", name)
}

// GetStorePassphrase enables at-rest encryption of the file store when set.
func (Store) GetStorePassphrase() string {
	return GetEnv("CREDENTIAL_PASSPHRASE", "")
}

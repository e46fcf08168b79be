// Package filestore persists credentials as a JSON document on disk,
// optionally sealed with a passphrase.
package filestore

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/jrsteele09/studysphere/credentials"
	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	fileVersion     = 1
	saltLength      = 16
	keyLength       = chacha20poly1305.KeySize
	defaultScryptN  = 1 << 15
	scryptR         = 8
	scryptP         = 1
	filePermissions = 0o600
	dirPermissions  = 0o700
	lockSuffix      = ".lock"
	lockRetryDelay  = 10 * time.Millisecond
)

var _ credentials.Store = (*FileStore)(nil)

// envelope is the on-disk format. Plain files carry Values; sealed files
// carry Salt, Nonce and Ciphertext instead.
type envelope struct {
	Version    int               `json:"version"`
	Values     map[string]string `json:"values,omitempty"`
	Salt       []byte            `json:"salt,omitempty"`
	Nonce      []byte            `json:"nonce,omitempty"`
	Ciphertext []byte            `json:"ciphertext,omitempty"`
}

// FileStore re-reads the file on every call. Reads take a shared advisory
// lock on a sibling ".lock" file and writes an exclusive one, so processes
// sharing the file do not lose each other's updates.
type FileStore struct {
	path       string
	passphrase []byte
	scryptN    int
	keys       map[string][]byte // derived keys by salt
	lock       sync.Mutex
	fileLock   *flock.Flock
}

type Option func(*FileStore)

// WithPassphrase seals the file with XChaCha20-Poly1305 under a scrypt
// derived key.
func WithPassphrase(passphrase string) Option {
	return func(f *FileStore) {
		if passphrase != "" {
			f.passphrase = []byte(passphrase)
		}
	}
}

// WithScryptCost overrides the scrypt N parameter. Tests use a low value.
func WithScryptCost(n int) Option {
	return func(f *FileStore) {
		f.scryptN = n
	}
}

func New(path string, options ...Option) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("[filestore.New] path is required")
	}
	f := &FileStore{
		path:     path,
		scryptN:  defaultScryptN,
		keys:     make(map[string][]byte),
		fileLock: flock.New(path + lockSuffix),
	}
	for _, opt := range options {
		opt(f)
	}
	return f, nil
}

func (f *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		v  string
		ok bool
	)
	err := f.locked(ctx, false, func() error {
		values, _, err := f.load()
		if err != nil {
			return err
		}
		v, ok = values[key]
		return nil
	})
	return v, ok, err
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	return f.locked(ctx, true, func() error {
		values, salt, err := f.load()
		if err != nil {
			return err
		}
		values[key] = value
		return f.save(values, salt)
	})
}

func (f *FileStore) Remove(ctx context.Context, key string) error {
	return f.locked(ctx, true, func() error {
		values, salt, err := f.load()
		if err != nil {
			return err
		}
		if _, ok := values[key]; !ok {
			return nil
		}
		delete(values, key)
		return f.save(values, salt)
	})
}

// locked runs fn under the in-process mutex and the file lock. The mutex
// comes first because a Flock is not reentrant across goroutines.
func (f *FileStore) locked(ctx context.Context, exclusive bool, fn func() error) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), dirPermissions); err != nil {
		return errors.Wrap(err, "FileStore.locked mkdir")
	}
	try := f.fileLock.TryRLockContext
	if exclusive {
		try = f.fileLock.TryLockContext
	}
	ok, err := try(ctx, lockRetryDelay)
	if err != nil {
		return errors.Wrapf(err, "FileStore.locked %s", f.fileLock.Path())
	}
	if !ok {
		return errors.Errorf("FileStore.locked %s: lock not acquired", f.fileLock.Path())
	}
	defer func() {
		_ = f.fileLock.Unlock()
	}()
	return fn()
}

func (f *FileStore) load() (map[string]string, []byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "FileStore.load read")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, errors.Wrapf(err, "FileStore.load decode %s", f.path)
	}

	if env.Ciphertext == nil {
		if env.Values == nil {
			env.Values = make(map[string]string)
		}
		return env.Values, nil, nil
	}

	if f.passphrase == nil {
		return nil, nil, fmt.Errorf("%s is sealed and no passphrase is configured: %w", f.path, apperrors.ErrBadPassphrase)
	}
	aead, err := f.aead(env.Salt)
	if err != nil {
		return nil, nil, err
	}
	plain, err := aead.Open(nil, env.Nonce, env.Ciphertext, []byte(f.path))
	if err != nil {
		return nil, nil, apperrors.ErrBadPassphrase
	}
	values := make(map[string]string)
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, nil, errors.Wrap(err, "FileStore.load decode sealed values")
	}
	return values, env.Salt, nil
}

func (f *FileStore) save(values map[string]string, salt []byte) error {
	env := envelope{Version: fileVersion}

	if f.passphrase == nil {
		env.Values = values
	} else {
		if salt == nil {
			salt = make([]byte, saltLength)
			if _, err := rand.Read(salt); err != nil {
				return errors.Wrap(err, "FileStore.save salt")
			}
		}
		aead, err := f.aead(salt)
		if err != nil {
			return err
		}
		plain, err := json.Marshal(values)
		if err != nil {
			return errors.Wrap(err, "FileStore.save encode values")
		}
		nonce := make([]byte, aead.NonceSize())
		if _, err := rand.Read(nonce); err != nil {
			return errors.Wrap(err, "FileStore.save nonce")
		}
		env.Salt = salt
		env.Nonce = nonce
		env.Ciphertext = aead.Seal(nil, nonce, plain, []byte(f.path))
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.Wrap(err, "FileStore.save encode")
	}
	return f.writeAtomic(data)
}

func (f *FileStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return errors.Wrap(err, "FileStore.writeAtomic create temp")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(filePermissions); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "FileStore.writeAtomic chmod")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "FileStore.writeAtomic write")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "FileStore.writeAtomic close")
	}
	return errors.Wrap(os.Rename(tmpName, f.path), "FileStore.writeAtomic rename")
}

func (f *FileStore) aead(salt []byte) (cipher.AEAD, error) {
	key, ok := f.keys[string(salt)]
	if !ok {
		var err error
		key, err = scrypt.Key(f.passphrase, salt, f.scryptN, scryptR, scryptP, keyLength)
		if err != nil {
			return nil, errors.Wrap(err, "FileStore.aead derive key")
		}
		f.keys[string(salt)] = key
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "FileStore.aead")
	}
	return aead, nil
}

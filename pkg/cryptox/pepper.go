package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
)

var (
	pepperMu sync.RWMutex
	pepper   string
)

// LoadPepper reads the pepper from path, creating it with fresh random bytes
// on first start. Must be called before hashing secrets that need to survive
// restarts.
func LoadPepper(path string) error {
	raw, err := LoadOrCreateFile(path, func() ([]byte, error) {
		buf := make([]byte, keyLength)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		return []byte(base64.RawURLEncoding.EncodeToString(buf)), nil
	})
	if err != nil {
		return err
	}

	SetPepper(string(raw))
	return nil
}

// SetPepper replaces the process-wide pepper.
func SetPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = p
}

// Pepper returns the current pepper; empty until one is loaded or set.
func Pepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}

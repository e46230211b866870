package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

// EncryptedFileStore stores credentials in an AES-GCM encrypted file
type EncryptedFileStore struct {
	filePath string
	mu       sync.RWMutex
}

type encryptedData struct {
	Salt     string            `json:"salt"`
	Accounts map[string]string `json:"accounts"`
}

// NewEncryptedFileStore creates an encrypted file store at the given path
func NewEncryptedFileStore(filePath string) (*EncryptedFileStore, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &EncryptedFileStore{filePath: filePath}, nil
}

// Store saves an account to the encrypted file
func (e *EncryptedFileStore) Store(account *Account) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := e.loadData()
	if err != nil {
		return err
	}

	accountJSON, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	encrypted, err := e.encrypt(accountJSON, data.Salt)
	if err != nil {
		return fmt.Errorf("failed to encrypt account: %w", err)
	}

	data.Accounts[account.Name] = encrypted

	return e.saveData(data)
}

// Retrieve gets an account from the encrypted file
func (e *EncryptedFileStore) Retrieve(name string) (*Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	data, err := e.loadData()
	if err != nil {
		return nil, err
	}

	encrypted, ok := data.Accounts[name]
	if !ok {
		return nil, ErrCredentialsNotFound
	}

	decrypted, err := e.decrypt(encrypted, data.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt account: %w", err)
	}

	var account Account
	if err := json.Unmarshal(decrypted, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// List returns all accounts in the encrypted file
func (e *EncryptedFileStore) List() ([]*Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	data, err := e.loadData()
	if err != nil {
		return nil, err
	}

	var accounts []*Account
	for name := range data.Accounts {
		decrypted, err := e.decrypt(data.Accounts[name], data.Salt)
		if err != nil {
			continue
		}
		var account Account
		if err := json.Unmarshal(decrypted, &account); err != nil {
			continue
		}
		accounts = append(accounts, &account)
	}

	return accounts, nil
}

// Delete removes an account from the encrypted file
func (e *EncryptedFileStore) Delete(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := e.loadData()
	if err != nil {
		return err
	}

	if _, ok := data.Accounts[name]; !ok {
		return ErrCredentialsNotFound
	}

	delete(data.Accounts, name)

	return e.saveData(data)
}

// Exists checks whether an account is present
func (e *EncryptedFileStore) Exists(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	data, err := e.loadData()
	if err != nil {
		return false
	}

	_, ok := data.Accounts[name]
	return ok
}

func (e *EncryptedFileStore) loadData() (*encryptedData, error) {
	raw, err := os.ReadFile(e.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			salt := make([]byte, saltSize)
			if _, err := rand.Read(salt); err != nil {
				return nil, fmt.Errorf("failed to generate salt: %w", err)
			}
			return &encryptedData{
				Salt:     base64.StdEncoding.EncodeToString(salt),
				Accounts: make(map[string]string),
			}, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var data encryptedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if data.Accounts == nil {
		data.Accounts = make(map[string]string)
	}

	return &data, nil
}

func (e *EncryptedFileStore) saveData(data *encryptedData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	tmpFile := e.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, raw, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	if err := os.Rename(tmpFile, e.filePath); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to save credentials file: %w", err)
	}

	return nil
}

func (e *EncryptedFileStore) encrypt(plaintext []byte, saltB64 string) (string, error) {
	key, err := e.deriveKey(saltB64)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (e *EncryptedFileStore) decrypt(ciphertextB64, saltB64 string) ([]byte, error) {
	key, err := e.deriveKey(saltB64)
	if err != nil {
		return nil, err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, ErrInvalidCredentials
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func (e *EncryptedFileStore) deriveKey(saltB64 string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, fmt.Errorf("invalid salt: %w", err)
	}

	passphrase, err := e.getPassphrase()
	if err != nil {
		return nil, err
	}

	return pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New), nil
}

// getPassphrase reads the passphrase from the environment, generating
// and persisting a machine-local one next to the store otherwise.
func (e *EncryptedFileStore) getPassphrase() (string, error) {
	if passphrase := os.Getenv("REDDITEXTRACT_PASSPHRASE"); passphrase != "" {
		return passphrase, nil
	}

	keyFile := filepath.Join(filepath.Dir(e.filePath), ".key")
	if raw, err := os.ReadFile(keyFile); err == nil && len(raw) > 0 {
		return string(raw), nil
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}
	passphrase := base64.StdEncoding.EncodeToString(key)

	if err := os.WriteFile(keyFile, []byte(passphrase), 0600); err != nil {
		return "", fmt.Errorf("failed to save passphrase: %w", err)
	}

	return passphrase, nil
}

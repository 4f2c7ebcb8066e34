package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SIMBAChain/simba-sdk-go/internal/constants"
	"github.com/SIMBAChain/simba-sdk-go/pkg/simba"
)

// ErrPathRequired is returned when a persistent store is created without a path.
var ErrPathRequired = errors.New("token store path is required")

// File persists tokens as a YAML document on disk, one entry per client
// identifier. Every write replaces the whole file through a temp-file rename,
// so a concurrent reader sees either the previous document or the new one.
// The mutex serializes access within the process only; the file is not locked
// against other processes.
type File struct {
	mu   sync.Mutex
	path string
}

var _ simba.TokenStore = (*File)(nil)

// NewFile creates a file-backed token store at path, creating parent
// directories as needed. The file itself is created on first write.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, ErrPathRequired
	}

	err := os.MkdirAll(filepath.Dir(path), constants.TokenDirPerm)
	if err != nil {
		return nil, fmt.Errorf("creating token directory: %w", err)
	}

	return &File{path: path}, nil
}

// GetToken returns the stored access token for the identifier, or an empty
// string when the file or the entry does not exist.
func (s *File) GetToken(_ context.Context, identifier string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil {
		return "", err
	}

	return tokens[identifier].AccessToken, nil
}

// SetToken stores a token for the identifier and rewrites the file.
func (s *File) SetToken(_ context.Context, identifier, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil {
		return err
	}

	tokens[identifier] = simba.Token{AccessToken: token, ExpiresAt: expiresAt}

	return s.save(tokens)
}

func (s *File) load() (map[string]simba.Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]simba.Token), nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	tokens := make(map[string]simba.Token)

	err = yaml.Unmarshal(data, &tokens)
	if err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}

	return tokens, nil
}

func (s *File) save(tokens map[string]simba.Token) error {
	data, err := yaml.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("encoding token file: %w", err)
	}

	tmp := s.path + ".tmp"

	err = os.WriteFile(tmp, data, constants.TokenFilePerm)
	if err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}

	err = os.Rename(tmp, s.path)
	if err != nil {
		return fmt.Errorf("replacing token file: %w", err)
	}

	return nil
}

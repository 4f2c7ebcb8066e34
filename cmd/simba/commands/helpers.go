package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/SIMBAChain/simba-sdk-go/pkg/simba"
	"github.com/SIMBAChain/simba-sdk-go/pkg/simbaclient"
	"github.com/SIMBAChain/simba-sdk-go/pkg/tokenstore"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"
	Masked       = "***"

	// Output formats.
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)

// Common static errors used throughout the commands package.
var (
	ErrAPIEndpointRequired = errors.New("API endpoint is required (use --api, a config file, or SIMBA_API)")
	ErrClientIDRequired    = errors.New("client ID is required (use --client-id, a config file, or SIMBA_CLIENT_ID)")
	ErrInvalidQueryFormat  = errors.New("query parameters must be key=value")
	ErrInvalidFileFormat   = errors.New("file uploads must be field=path")
	ErrNoStoredTokens      = errors.New("no stored tokens")
)

// storePath returns the token store location, defaulting to
// ~/.simba/tokens.yaml.
func storePath() (string, error) {
	if path := viper.GetString("token_store"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	return filepath.Join(home, ".simba", "tokens.yaml"), nil
}

// newClient builds an SDK client from the persistent flags, config file, and
// environment, backed by the file token store.
func newClient() (*simba.Client, error) {
	baseURL := viper.GetString("api")
	if baseURL == "" {
		return nil, ErrAPIEndpointRequired
	}

	path, err := storePath()
	if err != nil {
		return nil, err
	}

	store, err := tokenstore.NewFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}

	config := &simba.Config{
		BaseURL:       baseURL,
		TokenURL:      viper.GetString("token_url"),
		ClientID:      viper.GetString("client_id"),
		SkipTLSVerify: viper.GetBool("skip_ssl_validation"),
		Debug:         viper.GetBool("verbose"),
	}

	return simbaclient.New(config, simba.WithTokenStore(store))
}

// saveConfig writes the active settings to the config file, creating
// ~/.simba/config.yaml when no file is in use yet.
func saveConfig() error {
	if viper.ConfigFileUsed() != "" {
		return viper.WriteConfig()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}

	configDir := filepath.Join(home, ".simba")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return viper.WriteConfigAs(filepath.Join(configDir, "config.yaml"))
}

// printResponse renders a response body according to the output format. JSON
// bodies are pretty-printed, anything else prints as raw text.
func printResponse(resp *simba.Response) error {
	var doc interface{}
	if err := resp.JSON(&doc); err != nil {
		fmt.Println(resp.Text())

		return nil
	}

	switch viper.GetString("output") {
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(doc)
	default:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(doc)
	}
}

// parseQuery converts repeated key=value flags into url.Values.
func parseQuery(pairs []string) (url.Values, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	query := url.Values{}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidQueryFormat, pair)
		}

		query.Add(key, value)
	}

	return query, nil
}

// readData resolves a --data flag value, loading from a file when prefixed
// with @.
func readData(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}

	if strings.HasPrefix(data, "@") {
		content, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, fmt.Errorf("reading data file: %w", err)
		}

		return content, nil
	}

	return []byte(data), nil
}

// parseFiles converts repeated field=path flags into multipart upload parts.
func parseFiles(pairs []string) ([]simba.FileUpload, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	files := make([]simba.FileUpload, 0, len(pairs))

	for _, pair := range pairs {
		field, path, ok := strings.Cut(pair, "=")
		if !ok || field == "" || path == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFileFormat, pair)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading upload file: %w", err)
		}

		files = append(files, simba.FileUpload{
			Field:   field,
			Name:    filepath.Base(path),
			Content: content,
		})
	}

	return files, nil
}

// maskToken keeps enough of a token to recognize it without printing the
// whole credential.
func maskToken(token string) string {
	if token == "" {
		return NotAvailable
	}

	if len(token) <= 8 {
		return Masked
	}

	return token[:8] + Masked
}

package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/SIMBAChain/simba-sdk-go/pkg/simba"
	"github.com/SIMBAChain/simba-sdk-go/pkg/simbaclient"
	"github.com/SIMBAChain/simba-sdk-go/pkg/tokenstore"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint  string
		tokenURL     string
		clientID     string
		clientSecret string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize with client credentials",
		Long:  "Exchange client credentials for a bearer token and store it for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get API endpoint
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
			}

			if apiEndpoint == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("API endpoint: ")
				apiEndpoint, _ = reader.ReadString('\n')
				apiEndpoint = strings.TrimSpace(apiEndpoint)
			}

			if apiEndpoint == "" {
				return ErrAPIEndpointRequired
			}

			if tokenURL == "" {
				tokenURL = viper.GetString("token_url")
			}

			if tokenURL == "" {
				tokenURL = strings.TrimSuffix(apiEndpoint, "/") + "/o/token/"
			}

			// Get credentials
			if clientID == "" {
				clientID = viper.GetString("client_id")
			}

			if clientID == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Client ID: ")
				clientID, _ = reader.ReadString('\n')
				clientID = strings.TrimSpace(clientID)
			}

			if clientID == "" {
				return ErrClientIDRequired
			}

			if clientSecret == "" {
				fmt.Print("Client secret: ")
				byteSecret, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read client secret: %w", err)
				}
				clientSecret = string(byteSecret)
				fmt.Println()
			}

			path, err := storePath()
			if err != nil {
				return err
			}

			store, err := tokenstore.NewFile(path)
			if err != nil {
				return fmt.Errorf("opening token store: %w", err)
			}

			client, err := simbaclient.NewWithClientCredentials(
				apiEndpoint, tokenURL, clientID, clientSecret,
				simba.WithTokenStore(store),
			)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			defer func() { _ = client.Close() }()

			if err := client.Authorize(cmd.Context(), "", nil); err != nil {
				return fmt.Errorf("failed to authorize: %w", err)
			}

			// Persist the working settings for later commands
			viper.Set("api", apiEndpoint)
			viper.Set("token_url", tokenURL)
			viper.Set("client_id", clientID)

			if err := saveConfig(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Successfully authorized %s against %s\n", clientID, client.BaseURL())

			return nil
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&apiEndpoint, "api", "a", "", "API base URL")
	cmd.Flags().StringVar(&tokenURL, "token-url", "", "token endpoint URL (defaults to <api>/o/token/)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret (prompted when omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored token",
		Long:  "Remove the bearer token stored for the configured client ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID := viper.GetString("client_id")
			if clientID == "" {
				return ErrClientIDRequired
			}

			path, err := storePath()
			if err != nil {
				return err
			}

			store, err := tokenstore.NewFile(path)
			if err != nil {
				return fmt.Errorf("opening token store: %w", err)
			}

			if err := store.SetToken(cmd.Context(), clientID, "", time.Time{}); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}

			fmt.Println("Successfully logged out")

			return nil
		},
	}
}

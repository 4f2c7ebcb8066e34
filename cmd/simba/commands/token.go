package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/SIMBAChain/simba-sdk-go/pkg/simba"
)

// NewTokenCommand creates the token command group
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect stored tokens",
		Long:  "Inspect the bearer tokens held by the file token store",
	}

	cmd.AddCommand(newTokenShowCommand())

	return cmd
}

// tokenRow is the redacted view of one stored token.
type tokenRow struct {
	ClientID string `json:"client_id" yaml:"client_id"`
	Token    string `json:"token"     yaml:"token"`
	Expires  string `json:"expires"   yaml:"expires"`
	Valid    bool   `json:"valid"     yaml:"valid"`
}

func newTokenShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display stored tokens",
		Long:  "Display the identifier, expiry, and validity of every stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := storePath()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if errors.Is(err, os.ErrNotExist) {
				return ErrNoStoredTokens
			}

			if err != nil {
				return fmt.Errorf("reading token store: %w", err)
			}

			var tokens map[string]simba.Token
			if err := yaml.Unmarshal(data, &tokens); err != nil {
				return fmt.Errorf("parsing token store: %w", err)
			}

			if len(tokens) == 0 {
				return ErrNoStoredTokens
			}

			identifiers := make([]string, 0, len(tokens))
			for identifier := range tokens {
				identifiers = append(identifiers, identifier)
			}

			sort.Strings(identifiers)

			rows := make([]tokenRow, 0, len(identifiers))

			for _, identifier := range identifiers {
				record := tokens[identifier]

				expires := NotAvailable
				if !record.ExpiresAt.IsZero() {
					expires = record.ExpiresAt.Format(time.RFC3339)
				}

				rows = append(rows, tokenRow{
					ClientID: identifier,
					Token:    maskToken(record.AccessToken),
					Expires:  expires,
					Valid:    record.Valid(),
				})
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(rows)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(rows)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Client ID", "Token", "Expires", "Valid")

				for _, row := range rows {
					_ = table.Append(row.ClientID, row.Token, row.Expires, strconv.FormatBool(row.Valid))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/profilectl/internal/cli"
	"github.com/pluqqy/profilectl/pkg/files"
	"github.com/pluqqy/profilectl/pkg/metadata"
	"github.com/pluqqy/profilectl/pkg/models"
)

// AccountSummary is one row of accounts list
type AccountSummary struct {
	Name         string   `json:"name" yaml:"name"`
	DisplayName  string   `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	MemoKey      string   `json:"memo_key" yaml:"memo_key"`
	MetadataSize int      `json:"metadata_size" yaml:"metadata_size"`
	Muted        []string `json:"muted,omitempty" yaml:"muted,omitempty"`
}

var (
	accountMemoKey  string
	accountMetadata string
	accountMuted    []string
)

// NewAccountsCommand creates the accounts command group
func NewAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the local account book",
		Long: `Manage the accounts stored in .profilectl/accounts.yaml.

Each account carries a memo key and the json_metadata document that profile
updates rewrite.

Examples:
  # List accounts
  profilectl accounts list

  # Add an account with a muted list
  profilectl accounts add alice --memo-key GLS7abc --mute bob --mute eve`,
	}

	cmd.AddCommand(newAccountsListCommand())
	cmd.AddCommand(newAccountsAddCommand())
	return cmd
}

func newAccountsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List accounts",
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE:    runAccountsList,
	}
}

func runAccountsList(cmd *cobra.Command, args []string) error {
	book, err := files.ReadAccounts()
	if err != nil {
		return err
	}

	summaries := make([]AccountSummary, 0, len(book.Accounts))
	for _, account := range book.Accounts {
		profile, _ := metadata.ProfileFromJSON(account.JSONMetadata)
		summaries = append(summaries, AccountSummary{
			Name:         account.Name,
			DisplayName:  profile[models.FieldName],
			MemoKey:      account.MemoKey,
			MetadataSize: len(account.JSONMetadata),
			Muted:        account.Muted,
		})
	}

	format := outputFormat(cmd)
	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No accounts. Add one with 'profilectl accounts add <name>'.")
		return nil
	}

	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("NAME", "DISPLAY NAME", "MEMO KEY", "METADATA", "MUTED")
	for _, s := range summaries {
		table.Row(
			s.Name,
			cli.TruncateString(s.DisplayName, 20),
			cli.TruncateString(s.MemoKey, 16),
			cli.FormatBytes(int64(s.MetadataSize)),
			strconv.Itoa(len(s.Muted)),
		)
	}
	table.Flush()
	return nil
}

func newAccountsAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or replace an account",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := requireProject(cmd, args); err != nil {
				return err
			}
			return cli.ValidateAccountName(args[0])
		},
		RunE: runAccountsAdd,
	}

	cmd.Flags().StringVar(&accountMemoKey, "memo-key", "", "Public memo key of the account")
	cmd.Flags().StringVar(&accountMetadata, "metadata", "", "Initial json_metadata document")
	cmd.Flags().StringSliceVar(&accountMuted, "mute", nil, "Account muted by this one (repeatable)")
	return cmd
}

func runAccountsAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	if strings.TrimSpace(accountMetadata) != "" {
		if _, err := metadata.Parse(accountMetadata); err != nil {
			return err
		}
	}

	if _, err := files.ReadAccount(name); err == nil {
		ok, err := cli.Confirm(fmt.Sprintf("Account '%s' exists. Replace it?", name), false)
		if err != nil {
			return err
		}
		if !ok {
			cli.PrintInfo("Left '%s' unchanged", name)
			return nil
		}
	}

	account := models.Account{
		Name:         name,
		MemoKey:      accountMemoKey,
		JSONMetadata: accountMetadata,
		Muted:        accountMuted,
	}
	if err := files.NewAccountStore().Save(account); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	cli.PrintSuccess("Added account '%s'", name)
	return nil
}

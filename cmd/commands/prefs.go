package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/profilectl/internal/cli"
	"github.com/pluqqy/profilectl/pkg/models"
)

// PrefsResult is the output of prefs get
type PrefsResult struct {
	Language string                `json:"language" yaml:"language"`
	Currency string                `json:"currency" yaml:"currency"`
	Account  string                `json:"account,omitempty" yaml:"account,omitempty"`
	Nsfw     models.NsfwPreference `json:"nsfw,omitempty" yaml:"nsfw,omitempty"`
}

var prefsAccount string

// NewPrefsCommand creates the prefs command group
func NewPrefsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read or change local preferences",
		Long: `Read or change preferences stored on this machine: interface language,
display currency and the per-account adult content (NSFW) setting.

Examples:
  profilectl prefs get
  profilectl prefs set language en
  profilectl prefs set currency GOLOS
  profilectl prefs set nsfw hide --account alice`,
	}

	cmd.AddCommand(newPrefsGetCommand())
	cmd.AddCommand(newPrefsSetCommand())
	return cmd
}

func newPrefsGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "get",
		Short:   "Show preferences",
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE:    runPrefsGet,
	}
	cmd.Flags().StringVar(&prefsAccount, "account", "", "Account for the NSFW preference (default: current user)")
	return cmd
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	store, err := cc.OpenPreferences(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	result := PrefsResult{
		Language: store.Language(cmd.Context()),
		Currency: store.Currency(cmd.Context()),
		Account:  prefsTarget(cc, cmd),
	}
	if result.Account != "" {
		result.Nsfw = store.NsfwPreference(cmd.Context(), result.Account)
	}

	format := outputFormat(cmd)
	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, result)
	}

	w := cmd.OutOrStdout()
	locale := cc.LoadSettingsWithDefault().Locale
	fmt.Fprintf(w, "Language: %s (%s)\n", result.Language, locale.LanguageLabel(result.Language))
	fmt.Fprintf(w, "Currency: %s\n", result.Currency)
	if result.Account != "" {
		fmt.Fprintf(w, "NSFW:     %s (@%s)\n", result.Nsfw, result.Account)
	}
	return nil
}

func newPrefsSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "set <language|currency|nsfw> <value>",
		Short:     "Change a preference",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"language", "currency", "nsfw"},
		PreRunE:   requireProject,
		RunE:      runPrefsSet,
	}
	cmd.Flags().StringVar(&prefsAccount, "account", "", "Account for the NSFW preference (default: current user)")
	return cmd
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	ctx := cmd.Context()
	store, err := cc.OpenPreferences(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	switch key {
	case "language":
		if err := store.SetLanguage(ctx, value); err != nil {
			return err
		}
	case "currency":
		if err := store.SetCurrency(ctx, value); err != nil {
			return fmt.Errorf("%w (allowed: %v)", err, cc.LoadSettingsWithDefault().Locale.Currencies)
		}
	case "nsfw":
		pref, err := cli.ValidateNsfwPreference(value)
		if err != nil {
			return err
		}
		account := prefsTarget(cc, cmd)
		if account == "" {
			return errors.New("no account for the nsfw preference; pass --account or set session.username")
		}
		if err := store.SetNsfwPreference(ctx, account, pref); err != nil {
			return err
		}
		value = fmt.Sprintf("%s for @%s", pref, account)
	default:
		return fmt.Errorf("unknown preference: %s (must be: language, currency, or nsfw)", key)
	}

	cli.PrintSuccess("%s set to %s", key, value)
	return nil
}

func prefsTarget(cc *cli.CommandContext, cmd *cobra.Command) string {
	if prefsAccount != "" {
		return prefsAccount
	}
	return cc.Viewer(viewerOverride(cmd))
}

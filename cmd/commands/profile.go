package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/pluqqy/profilectl/internal/cli"
	"github.com/pluqqy/profilectl/pkg/files"
	"github.com/pluqqy/profilectl/pkg/gateway"
	"github.com/pluqqy/profilectl/pkg/metadata"
	"github.com/pluqqy/profilectl/pkg/models"
)

// ProfileResult is the output of profile show
type ProfileResult struct {
	Account      string            `json:"account" yaml:"account"`
	Profile      map[string]string `json:"profile" yaml:"profile"`
	MetadataSize int               `json:"metadata_size" yaml:"metadata_size"`
	Muted        []string          `json:"muted,omitempty" yaml:"muted,omitempty"`
}

// profileSubmitTimeout bounds how long profile set waits for the ledger
const profileSubmitTimeout = 30 * time.Second

// profileSetFlags maps flag names to the fields they edit
var profileSetFlags = []struct {
	flag  string
	field models.ProfileField
	usage string
}{
	{"image", models.FieldProfileImage, "Profile picture URL (http or https)"},
	{"name", models.FieldName, "Display name"},
	{"about", models.FieldAbout, "About text"},
	{"location", models.FieldLocation, "Location"},
	{"website", models.FieldWebsite, "Website URL (http or https)"},
}

// NewProfileCommand creates the profile command group
func NewProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update an account profile",
		Long: `Show or update the profile stored in an account's json_metadata.

Examples:
  # Show a profile
  profilectl profile show alice

  # Update fields; a flag set to "" removes the field
  profilectl profile set alice --name "Alice" --website https://alice.example
  profilectl profile set alice --about ""`,
	}

	cmd.AddCommand(newProfileShowCommand())
	cmd.AddCommand(newProfileSetCommand())
	return cmd
}

func newProfileShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "show <account>",
		Short:   "Show an account profile",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE:    runProfileShow,
	}
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	account, err := files.ReadAccount(args[0])
	if err != nil {
		if errors.Is(err, files.ErrAccountNotFound) {
			return fmt.Errorf("account '%s' not found", args[0])
		}
		return err
	}

	profile, err := metadata.ProfileFromJSON(account.JSONMetadata)
	if err != nil {
		cli.PrintWarning("json_metadata of '%s' is not valid JSON", account.Name)
		profile = models.Profile{}
	}

	result := ProfileResult{
		Account:      account.Name,
		Profile:      make(map[string]string),
		MetadataSize: len(account.JSONMetadata),
		Muted:        account.Muted,
	}
	for field, value := range profile {
		if value != "" {
			result.Profile[string(field)] = value
		}
	}

	format := outputFormat(cmd)
	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, result)
	}

	writeProfileText(cmd.OutOrStdout(), result)
	return nil
}

var profileTextLabels = map[models.ProfileField]string{
	models.FieldProfileImage: "Image",
	models.FieldName:         "Name",
	models.FieldAbout:        "About",
	models.FieldLocation:     "Location",
	models.FieldWebsite:      "Website",
}

func writeProfileText(w io.Writer, result ProfileResult) {
	fmt.Fprintf(w, "Account: @%s\n", result.Account)
	for _, field := range models.ProfileFields {
		value := result.Profile[string(field)]
		if value == "" {
			value = "-"
		}
		if field == models.FieldAbout {
			value = strings.ReplaceAll(wordwrap.String(value, 60), "\n", "\n          ")
		}
		fmt.Fprintf(w, "%-9s %s\n", profileTextLabels[field]+":", value)
	}
	fmt.Fprintf(w, "Metadata: %s of %s\n",
		cli.FormatBytes(int64(result.MetadataSize)), cli.FormatBytes(gateway.MaxMetadataSize))

	if len(result.Muted) > 0 {
		muted := append([]string(nil), result.Muted...)
		sort.Strings(muted)
		fmt.Fprintf(w, "Muted:    %s\n", strings.Join(muted, ", "))
	}
}

func newProfileSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set <account>",
		Short:   "Update profile fields",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE:    runProfileSet,
	}

	for _, f := range profileSetFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	return cmd
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), profileSubmitTimeout)
	defer cancel()

	viewer := cc.Viewer(viewerOverride(cmd))
	session, err := cc.OpenProfileSession(ctx, args[0], viewer)
	if err != nil {
		return err
	}
	defer session.Close()

	if !session.Owner() {
		if viewer == "" {
			return fmt.Errorf("only @%s can edit this profile; set session.username or pass --as", args[0])
		}
		return fmt.Errorf("only @%s can edit this profile (acting as @%s)", args[0], viewer)
	}

	ctrl := session.Controller
	for _, f := range profileSetFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		value, _ := cmd.Flags().GetString(f.flag)
		ctrl.SetFieldValue(f.field, value)
		ctrl.SetFieldBlurred(f.field)
	}

	snap := ctrl.Snapshot()
	if !snap.Valid {
		var problems []string
		for _, f := range profileSetFlags {
			if issue := snap.Field(f.field).Error; issue != "" {
				problems = append(problems, fmt.Sprintf("--%s: %s", f.flag, session.Catalog.Translate(issue.Key())))
			}
		}
		return fmt.Errorf("invalid profile:\n  %s", strings.Join(problems, "\n  "))
	}
	if !snap.Touched {
		cli.PrintInfo("Nothing to update")
		return nil
	}

	if !ctrl.Submit(ctx) {
		return errors.New(ctrl.Snapshot().ErrorMessage)
	}
	if err := session.Queue.Run(ctx, func() bool { return !ctrl.Snapshot().Submitting }); err != nil {
		return fmt.Errorf("profile update did not complete: %w", err)
	}

	snap = ctrl.Snapshot()
	if snap.ErrorMessage != "" {
		return errors.New(snap.ErrorMessage)
	}

	cli.PrintSuccess("%s: @%s", snap.SuccessMessage, args[0])
	return nil
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/pluqqy/profilectl/internal/cli"
)

// AddGlobalFlags registers the flags shared by every command on root
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress informational output")
	root.PersistentFlags().Bool("no-color", false, "Disable symbols and color in messages")
	root.PersistentFlags().BoolP("yes", "y", false, "Answer yes to confirmation prompts")
	root.PersistentFlags().StringP("output", "o", "text", "Output format: text, json, or yaml")
	root.PersistentFlags().String("as", "", "Act as this user instead of session.username")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		noColor, _ := cmd.Flags().GetBool("no-color")
		yes, _ := cmd.Flags().GetBool("yes")
		cli.SetGlobalFlags(quiet, noColor, yes)

		return cli.ValidateOutputFormat(outputFormat(cmd))
	}
}

// outputFormat reads -o, defaulting to text when the flag is not registered
func outputFormat(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("output")
	if err != nil || format == "" {
		return string(cli.FormatText)
	}
	return format
}

func viewerOverride(cmd *cobra.Command) string {
	as, _ := cmd.Flags().GetString("as")
	return as
}

// requireProject is the PreRunE shared by commands that need .profilectl
func requireProject(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	return ctx.ValidateProject()
}

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pluqqy/profilectl/cmd/commands"
	"github.com/pluqqy/profilectl/internal/cli"
	"github.com/pluqqy/profilectl/pkg/files"
	"github.com/pluqqy/profilectl/pkg/tui"
)

// Version is set during build with -ldflags
var version = "dev"

var initUser string

var rootCmd = &cobra.Command{
	Use:   "profilectl [account]",
	Short: "Terminal editor for blockchain account profiles",
	Long: `profilectl edits the public profile stored in an account's json_metadata:
picture, display name, about, location and website. It also keeps local
preferences such as interface language, display currency and the adult
content setting.

Run without a subcommand to open the interactive editor for the current user.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runEditor,
}

func runEditor(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	if err := cc.ValidateProject(); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the editor needs a terminal; use 'profilectl profile set' in scripts")
	}

	as, _ := cmd.Flags().GetString("as")
	viewer := cc.Viewer(as)

	account := viewer
	if len(args) == 1 {
		account = args[0]
	}
	if account == "" {
		return fmt.Errorf("no account given and session.username is not set")
	}

	session, err := cc.OpenProfileSession(cmd.Context(), account, viewer)
	if err != nil {
		return err
	}
	defer session.Close()

	editor := tui.NewSettingsEditorModel(cmd.Context(), tui.SettingsEditorConfig{
		Controller: session.Controller,
		Prefs:      session.Prefs,
		Catalog:    session.Catalog,
		Locale:     cc.LoadSettingsWithDefault().Locale,
		Logger:     session.Logger,
	})
	defer editor.Close()

	p := tea.NewProgram(tui.NewApp(editor, session.Queue), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}
	return nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a profilectl project",
	Long:  `Creates the .profilectl folder with default settings and an empty account book`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine current directory: %w", err)
		}

		cli.PrintInfo("Initializing profilectl project in %s...", cwd)

		if err := files.InitProjectStructure(); err != nil {
			return fmt.Errorf("failed to initialize project structure: %w", err)
		}
		cli.PrintSuccess("Created %s folder structure", files.ProjectDir)

		if initUser != "" {
			if err := cli.ValidateAccountName(initUser); err != nil {
				return err
			}
			settings, err := files.ReadSettings()
			if err != nil {
				return err
			}
			settings.Session.Username = initUser
			if err := files.WriteSettings(settings); err != nil {
				return err
			}
			cli.PrintSuccess("Acting as @%s", initUser)
		}

		cli.PrintInfo("Add an account with 'profilectl accounts add <name>', then run 'profilectl'.")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of profilectl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "profilectl version %s\n", version)
	},
}

func init() {
	initCmd.Flags().StringVar(&initUser, "user", "", "Account name to act as (session.username)")

	commands.AddGlobalFlags(rootCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commands.NewAccountsCommand())
	rootCmd.AddCommand(commands.NewProfileCommand())
	rootCmd.AddCommand(commands.NewPrefsCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}

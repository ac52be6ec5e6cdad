package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pluqqy/profilectl/internal/cli"
	"github.com/pluqqy/profilectl/pkg/files"
	"github.com/pluqqy/profilectl/pkg/models"
)

// setupProject creates an initialized project in a temp dir with an instant ledger
func setupProject(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	require.NoError(t, files.InitProjectStructure())

	settings := models.DefaultSettings()
	settings.Session.Username = "alice"
	settings.Locale.DefaultLanguage = "en"
	settings.Ledger.Latency = 0
	settings.Log.Path = ""
	require.NoError(t, files.WriteSettings(settings))
}

func addAccount(t *testing.T, account models.Account) {
	t.Helper()
	require.NoError(t, files.NewAccountStore().Save(account))
}

// run executes args against a root carrying the global flags and returns
// everything written to stdout and stderr
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "profilectl", SilenceUsage: true, SilenceErrors: true}
	AddGlobalFlags(root)
	root.AddCommand(NewAccountsCommand(), NewProfileCommand(), NewPrefsCommand())

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	cli.SetStreams(strings.NewReader(input), buf, buf)
	t.Cleanup(func() {
		cli.SetStreams(os.Stdin, os.Stdout, os.Stderr)
		cli.SetGlobalFlags(false, false, false)
	})

	err := root.Execute()
	return buf.String(), err
}

func TestCommandsRequireProject(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, args := range [][]string{
		{"accounts", "list"},
		{"profile", "show", "alice"},
		{"prefs", "get"},
	} {
		_, err := run(t, "", args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "no .profilectl directory found")
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	setupProject(t)
	_, err := run(t, "", "accounts", "list", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestAccountsAddAndList(t *testing.T) {
	setupProject(t)

	out, err := run(t, "", "accounts", "add", "bob", "--memo-key", "GLS7memo", "--mute", "eve", "--mute", "mallory",
		"--metadata", `{"profile":{"name":"Bob"}}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Added account 'bob'")

	account, err := files.ReadAccount("bob")
	require.NoError(t, err)
	assert.Equal(t, "GLS7memo", account.MemoKey)
	assert.Equal(t, []string{"eve", "mallory"}, account.Muted)

	out, err = run(t, "", "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "Bob")

	out, err = run(t, "", "accounts", "list", "-o", "json")
	require.NoError(t, err)
	var summaries []AccountSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Bob", summaries[0].DisplayName)
	assert.Equal(t, 2, len(summaries[0].Muted))
}

func TestAccountsListEmpty(t *testing.T) {
	setupProject(t)
	out, err := run(t, "", "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No accounts")
}

func TestAccountsAddValidation(t *testing.T) {
	setupProject(t)

	_, err := run(t, "", "accounts", "add", "Bad_Name")
	assert.Error(t, err)

	_, err = run(t, "", "accounts", "add", "bob", "--metadata", "{oops")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse account metadata")
}

func TestAccountsAddExisting(t *testing.T) {
	setupProject(t)
	addAccount(t, models.Account{Name: "bob", MemoKey: "old"})

	out, err := run(t, "n\n", "accounts", "add", "bob", "--memo-key", "new")
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")
	account, _ := files.ReadAccount("bob")
	assert.Equal(t, "old", account.MemoKey)

	_, err = run(t, "", "accounts", "add", "bob", "--memo-key", "new", "--yes")
	require.NoError(t, err)
	account, _ = files.ReadAccount("bob")
	assert.Equal(t, "new", account.MemoKey)
}

func TestProfileShow(t *testing.T) {
	setupProject(t)
	addAccount(t, models.Account{
		Name:         "alice",
		JSONMetadata: `{"profile":{"name":"Alice","about":"Writes about trains","website":"https://alice.example"}}`,
		Muted:        []string{"mallory", "eve"},
	})

	out, err := run(t, "", "profile", "show", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Account: @alice")
	assert.Contains(t, out, "Name:     Alice")
	assert.Contains(t, out, "Location: -")
	assert.Contains(t, out, "of 8.0 KB")
	assert.Contains(t, out, "Muted:    eve, mallory")

	out, err = run(t, "", "profile", "show", "alice", "-o", "yaml")
	require.NoError(t, err)
	var result ProfileResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	assert.Equal(t, "alice", result.Account)
	assert.Equal(t, "https://alice.example", result.Profile["website"])
	assert.NotContains(t, result.Profile, "location")

	_, err = run(t, "", "profile", "show", "nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestProfileSet(t *testing.T) {
	setupProject(t)
	addAccount(t, models.Account{
		Name:         "alice",
		MemoKey:      "GLS7memo",
		JSONMetadata: `{"user_image":"x","profile":{"name":"old","cover_image":"c"},"app":"golos"}`,
	})

	out, err := run(t, "", "profile", "set", "alice", "--name", "new", "--location", "Oslo")
	require.NoError(t, err)
	assert.Contains(t, out, "saved!")

	account, err := files.ReadAccount("alice")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(account.JSONMetadata), &doc))
	assert.NotContains(t, doc, "user_image")
	assert.Equal(t, "golos", doc["app"])
	profile := doc["profile"].(map[string]any)
	assert.Equal(t, "new", profile["name"])
	assert.Equal(t, "Oslo", profile["location"])
	assert.Equal(t, "c", profile["cover_image"])

	out, err = run(t, "", "profile", "set", "alice", "--location", "")
	require.NoError(t, err)
	account, _ = files.ReadAccount("alice")
	assert.NotContains(t, account.JSONMetadata, "Oslo")
}

func TestProfileSetRejectsInvalidValues(t *testing.T) {
	setupProject(t)
	addAccount(t, models.Account{Name: "alice"})

	_, err := run(t, "", "profile", "set", "alice", "--website", "alice.example", "--name", "@alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--website: invalid url")
	assert.Contains(t, err.Error(), "--name: name must not begin with @")

	account, _ := files.ReadAccount("alice")
	assert.Empty(t, account.JSONMetadata)
}

func TestProfileSetRequiresOwnership(t *testing.T) {
	setupProject(t)
	addAccount(t, models.Account{Name: "bob"})

	_, err := run(t, "", "profile", "set", "bob", "--name", "Bobby")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acting as @alice")

	_, err = run(t, "", "profile", "set", "bob", "--name", "Bobby", "--as", "bob")
	require.NoError(t, err)
}

func TestProfileSetNothingToUpdate(t *testing.T) {
	setupProject(t)
	addAccount(t, models.Account{Name: "alice"})

	out, err := run(t, "", "profile", "set", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to update")
}

func TestPrefsSetAndGet(t *testing.T) {
	setupProject(t)

	_, err := run(t, "", "prefs", "set", "language", "uk")
	require.NoError(t, err)
	_, err = run(t, "", "prefs", "set", "currency", "GOLOS")
	require.NoError(t, err)
	_, err = run(t, "", "prefs", "set", "nsfw", "hide")
	require.NoError(t, err)
	_, err = run(t, "", "prefs", "set", "nsfw", "show", "--account", "bob")
	require.NoError(t, err)

	out, err := run(t, "", "prefs", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "Language: uk (українська)")
	assert.Contains(t, out, "Currency: GOLOS")
	assert.Contains(t, out, "NSFW:     hide (@alice)")

	out, err = run(t, "", "prefs", "get", "--account", "bob", "-o", "json")
	require.NoError(t, err)
	var result PrefsResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, models.NsfwShow, result.Nsfw)
}

func TestPrefsSetRejectsInvalidValues(t *testing.T) {
	setupProject(t)

	_, err := run(t, "", "prefs", "set", "currency", "BTC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowed")

	_, err = run(t, "", "prefs", "set", "language", "English")
	assert.Error(t, err)

	_, err = run(t, "", "prefs", "set", "nsfw", "blur")
	assert.Error(t, err)

	_, err = run(t, "", "prefs", "set", "theme", "dark")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preference")
}

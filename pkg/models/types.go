package models

// Account is an entry of the local account book
type Account struct {
	Name         string   `yaml:"name" json:"name"`
	MemoKey      string   `yaml:"memo_key" json:"memo_key"`
	JSONMetadata string   `yaml:"json_metadata" json:"json_metadata"`
	Muted        []string `yaml:"muted,omitempty" json:"muted,omitempty"`
}

// AccountBook is the on-disk list of accounts
type AccountBook struct {
	Accounts []Account `yaml:"accounts"`
}

// Find returns the account with the given name
func (b *AccountBook) Find(name string) (*Account, bool) {
	for i := range b.Accounts {
		if b.Accounts[i].Name == name {
			return &b.Accounts[i], true
		}
	}
	return nil, false
}

// NsfwPreference controls how sensitive content is displayed for an account
type NsfwPreference string

const (
	NsfwHide NsfwPreference = "hide"
	NsfwWarn NsfwPreference = "warn"
	NsfwShow NsfwPreference = "show"
)

// NsfwPreferences lists the valid values in selector order
var NsfwPreferences = []NsfwPreference{NsfwHide, NsfwWarn, NsfwShow}

// Valid reports whether p is one of hide, warn or show
func (p NsfwPreference) Valid() bool {
	switch p {
	case NsfwHide, NsfwWarn, NsfwShow:
		return true
	}
	return false
}

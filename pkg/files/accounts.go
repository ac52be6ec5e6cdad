package files

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pluqqy/profilectl/pkg/models"
)

func ReadAccounts() (*models.AccountBook, error) {
	content, err := os.ReadFile(Path(AccountsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &models.AccountBook{}, nil
		}
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	var book models.AccountBook
	if err := yaml.Unmarshal(content, &book); err != nil {
		return nil, fmt.Errorf("failed to parse accounts YAML: %w", err)
	}

	return &book, nil
}

func WriteAccounts(book *models.AccountBook) error {
	sort.SliceStable(book.Accounts, func(i, j int) bool {
		return book.Accounts[i].Name < book.Accounts[j].Name
	})

	content, err := yaml.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to marshal accounts to YAML: %w", err)
	}

	if err := WriteFileAtomic(Path(AccountsFile), content); err != nil {
		return fmt.Errorf("failed to write accounts: %w", err)
	}

	return nil
}

func ReadAccount(name string) (*models.Account, error) {
	book, err := ReadAccounts()
	if err != nil {
		return nil, err
	}

	account, ok := book.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}

	return account, nil
}

// AccountStore serializes read-modify-write cycles on the account book.
// The ledger gateway writes from its own goroutine while commands read.
type AccountStore struct {
	mu sync.Mutex
}

func NewAccountStore() *AccountStore {
	return &AccountStore{}
}

func (s *AccountStore) Get(name string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ReadAccount(name)
}

// Save inserts the account or replaces an existing entry with the same name
func (s *AccountStore) Save(account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := ReadAccounts()
	if err != nil {
		return err
	}

	if existing, ok := book.Find(account.Name); ok {
		*existing = account
	} else {
		book.Accounts = append(book.Accounts, account)
	}

	return WriteAccounts(book)
}

// UpdateMetadata replaces json_metadata on an existing account
func (s *AccountStore) UpdateMetadata(name, jsonMetadata string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := ReadAccounts()
	if err != nil {
		return err
	}

	account, ok := book.Find(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}
	account.JSONMetadata = jsonMetadata

	return WriteAccounts(book)
}

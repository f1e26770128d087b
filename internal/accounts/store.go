package accounts

import (
	"errors"
	"strconv"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates no account matched the supplied
	// email/password pair.
	ErrInvalidCredentials = errors.New("accounts: invalid credentials")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("accounts: email already registered")
)

// SeedAccount describes an account registered at store construction.
type SeedAccount struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// DefaultSeed returns the accounts every fresh deployment ships with.
func DefaultSeed() []SeedAccount {
	return []SeedAccount{
		{Name: "Admin User", Email: "admin@scro.com", Password: "admin123", Role: RoleAdmin},
		{Name: "Viewer User", Email: "viewer@scro.com", Password: "viewer123", Role: RoleViewer},
	}
}

// Store is the in-memory credential registry. Its lifecycle is the
// process runtime: accounts registered via Add are lost on restart.
type Store struct {
	mu       sync.RWMutex
	accounts []*Account
	cost     int
}

// NewStore constructs a Store pre-populated with the given seed
// accounts. Seed passwords are hashed with the store's bcrypt cost.
func NewStore(seed []SeedAccount) (*Store, error) {
	return newStore(seed, bcrypt.DefaultCost)
}

// NewTestStore behaves like NewStore but hashes with the minimum bcrypt
// cost so test suites stay fast.
func NewTestStore(seed []SeedAccount) (*Store, error) {
	return newStore(seed, bcrypt.MinCost)
}

func newStore(seed []SeedAccount, cost int) (*Store, error) {
	s := &Store{cost: cost}
	for _, acc := range seed {
		role := acc.Role
		if !role.Valid() {
			role = RoleViewer
		}
		if err := s.append(acc.Name, acc.Email, acc.Password, role); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// FindByEmailAndPassword returns the account matching the email with a
// verifying password. Email comparison is exact and case-sensitive.
func (s *Store) FindByEmailAndPassword(email, password string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if acc.Email != email {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
		clone := *acc
		return &clone, nil
	}
	return nil, ErrInvalidCredentials
}

// EmailExists reports whether an account is registered under email.
func (s *Store) EmailExists(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findByEmail(email) != nil
}

// Add registers a new account. The role is always viewer: self-service
// signup can never grant admin. Returns ErrEmailTaken when the email is
// already registered.
func (s *Store) Add(name, email, password string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByEmail(email) != nil {
		return nil, ErrEmailTaken
	}
	if err := s.append(name, email, password, RoleViewer); err != nil {
		return nil, err
	}
	clone := *s.accounts[len(s.accounts)-1]
	return &clone, nil
}

// Count returns the number of registered accounts.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

func (s *Store) findByEmail(email string) *Account {
	for _, acc := range s.accounts {
		if acc.Email == email {
			return acc
		}
	}
	return nil
}

// append assumes the caller holds the write lock (or exclusive access
// during construction).
func (s *Store) append(name, email, password string, role Role) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}
	s.accounts = append(s.accounts, &Account{
		ID:           strconv.Itoa(len(s.accounts) + 1),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	return nil
}

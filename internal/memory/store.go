package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"moneybook-ledger-go/internal/models"
	"moneybook-ledger-go/internal/store"

	"github.com/google/uuid"
)

// Compile-time check: *Store must satisfy store.LedgerStore.
var _ store.LedgerStore = (*Store)(nil)

type entryRecord struct {
	entry models.Entry
	seq   int64
}

// Store is an in-memory implementation of store.LedgerStore. Writes made
// inside WithinTx are buffered and applied under one lock at commit.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]models.Account
	usernames map[string]string // lower(username) -> account id
	entries   map[string]entryRecord
	seq       int64
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]models.Account),
		usernames: make(map[string]string),
		entries:   make(map[string]entryRecord),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op; the data lives as long as the Store value.
func (s *Store) Close() {}

func (s *Store) GetAccount(_ context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getAccountLocked(id)
}

func (s *Store) getAccountLocked(id string) (*models.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrAccountNotFound, id)
	}
	return &account, nil
}

func (s *Store) GetAccountByUsername(_ context.Context, username string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[strings.ToLower(username)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrAccountNotFound, username)
	}
	return s.getAccountLocked(id)
}

func (s *Store) ListAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].Username < accounts[j].Username
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (s *Store) SaveAccount(ctx context.Context, account *models.Account) error {
	return s.WithinTx(ctx, func(tx store.Tx) error {
		return tx.SaveAccount(ctx, account)
	})
}

func (s *Store) GetEntry(_ context.Context, id string) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrEntryNotFound, id)
	}
	entry := rec.entry
	return &entry, nil
}

func (s *Store) SaveEntry(ctx context.Context, entry *models.Entry) error {
	return s.WithinTx(ctx, func(tx store.Tx) error {
		return tx.SaveEntry(ctx, entry)
	})
}

func (s *Store) DeleteEntry(ctx context.Context, entry *models.Entry) error {
	return s.WithinTx(ctx, func(tx store.Tx) error {
		return tx.DeleteEntry(ctx, entry)
	})
}

func (s *Store) ListEntriesByAccount(_ context.Context, accountId string, limit int) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []entryRecord
	for _, rec := range s.entries {
		if rec.entry.AccountId == accountId {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq > records[j].seq })

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	entries := make([]models.Entry, len(records))
	for i, rec := range records {
		entries[i] = rec.entry
	}
	return entries, nil
}

// WithinTx buffers every write made through tx and applies them together
// once fn returns nil. Conflicting commits fail with ErrConcurrentModification.
func (s *Store) WithinTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := newTx(s)
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

// ---------- transaction ----------

type stagedEntry struct {
	entry   models.Entry
	isNew   bool
	deleted bool
}

type memTx struct {
	s            *Store
	accounts     map[string]models.Account
	baseVersions map[string]int64
	newAccounts  []string
	entries      map[string]*stagedEntry
	entryOrder   []string
}

func newTx(s *Store) *memTx {
	return &memTx{
		s:            s,
		accounts:     make(map[string]models.Account),
		baseVersions: make(map[string]int64),
		entries:      make(map[string]*stagedEntry),
	}
}

func (t *memTx) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	if account, ok := t.accounts[id]; ok {
		return &account, nil
	}
	return t.s.GetAccount(ctx, id)
}

func (t *memTx) SaveAccount(ctx context.Context, account *models.Account) error {
	now := t.s.now()

	if account.Id == "" {
		if err := t.checkUsername(account.Username); err != nil {
			return err
		}
		account.Id = uuid.New().String()
		account.Version = 1
		account.CreatedAt = now
		account.UpdatedAt = now
		t.accounts[account.Id] = *account
		t.baseVersions[account.Id] = 0
		t.newAccounts = append(t.newAccounts, account.Id)
		return nil
	}

	current, err := t.GetAccount(ctx, account.Id)
	if err != nil {
		return err
	}
	if current.Version != account.Version {
		return fmt.Errorf("account %s at version %d, expected %d: %w",
			account.Id, current.Version, account.Version, store.ErrConcurrentModification)
	}
	if _, staged := t.baseVersions[account.Id]; !staged {
		t.baseVersions[account.Id] = current.Version
	}

	account.Version++
	account.UpdatedAt = now
	t.accounts[account.Id] = *account
	return nil
}

func (t *memTx) checkUsername(username string) error {
	key := strings.ToLower(username)
	for _, id := range t.newAccounts {
		if strings.ToLower(t.accounts[id].Username) == key {
			return fmt.Errorf("%w: %s", store.ErrUsernameTaken, username)
		}
	}
	t.s.mu.RLock()
	_, exists := t.s.usernames[key]
	t.s.mu.RUnlock()
	if exists {
		return fmt.Errorf("%w: %s", store.ErrUsernameTaken, username)
	}
	return nil
}

func (t *memTx) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	if staged, ok := t.entries[id]; ok {
		if staged.deleted {
			return nil, fmt.Errorf("%w: %s", store.ErrEntryNotFound, id)
		}
		entry := staged.entry
		return &entry, nil
	}
	return t.s.GetEntry(ctx, id)
}

func (t *memTx) SaveEntry(ctx context.Context, entry *models.Entry) error {
	if entry.Id == "" {
		if _, err := t.GetAccount(ctx, entry.AccountId); err != nil {
			return err
		}
		entry.Id = uuid.New().String()
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = t.s.now()
		}
		t.entries[entry.Id] = &stagedEntry{entry: *entry, isNew: true}
		t.entryOrder = append(t.entryOrder, entry.Id)
		return nil
	}

	current, err := t.GetEntry(ctx, entry.Id)
	if err != nil {
		return err
	}
	updated := *current
	updated.Amount = entry.Amount
	updated.Note = entry.Note

	staged, ok := t.entries[entry.Id]
	if !ok {
		staged = &stagedEntry{}
		t.entries[entry.Id] = staged
		t.entryOrder = append(t.entryOrder, entry.Id)
	}
	staged.entry = updated
	*entry = updated
	return nil
}

func (t *memTx) DeleteEntry(ctx context.Context, entry *models.Entry) error {
	current, err := t.GetEntry(ctx, entry.Id)
	if err != nil {
		return err
	}

	staged, ok := t.entries[entry.Id]
	if !ok {
		staged = &stagedEntry{entry: *current}
		t.entries[entry.Id] = staged
		t.entryOrder = append(t.entryOrder, entry.Id)
	}
	staged.deleted = true
	return nil
}

func (t *memTx) ListEntriesByAccount(ctx context.Context, accountId string, limit int) ([]models.Entry, error) {
	committed, err := t.s.ListEntriesByAccount(ctx, accountId, 0)
	if err != nil {
		return nil, err
	}

	var entries []models.Entry
	for i := len(t.entryOrder) - 1; i >= 0; i-- {
		staged := t.entries[t.entryOrder[i]]
		if staged.isNew && !staged.deleted && staged.entry.AccountId == accountId {
			entries = append(entries, staged.entry)
		}
	}
	for _, e := range committed {
		if staged, ok := t.entries[e.Id]; ok {
			if staged.deleted {
				continue
			}
			e = staged.entry
		}
		entries = append(entries, e)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (t *memTx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	// validate everything before applying anything
	for id, base := range t.baseVersions {
		if base == 0 {
			if _, taken := s.usernames[strings.ToLower(t.accounts[id].Username)]; taken {
				return fmt.Errorf("%w: %s", store.ErrUsernameTaken, t.accounts[id].Username)
			}
			continue
		}
		current, ok := s.accounts[id]
		if !ok {
			return fmt.Errorf("%w: %s", store.ErrAccountNotFound, id)
		}
		if current.Version != base {
			return fmt.Errorf("account %s changed during transaction: %w", id, store.ErrConcurrentModification)
		}
	}
	for _, id := range t.entryOrder {
		if t.entries[id].isNew {
			continue
		}
		if _, ok := s.entries[id]; !ok {
			return fmt.Errorf("%w: %s", store.ErrEntryNotFound, id)
		}
	}

	for id := range t.baseVersions {
		account := t.accounts[id]
		s.accounts[id] = account
		s.usernames[strings.ToLower(account.Username)] = id
	}
	for _, id := range t.entryOrder {
		staged := t.entries[id]
		switch {
		case staged.deleted:
			delete(s.entries, id)
		case staged.isNew:
			s.seq++
			s.entries[id] = entryRecord{entry: staged.entry, seq: s.seq}
		default:
			rec := s.entries[id]
			rec.entry = staged.entry
			s.entries[id] = rec
		}
	}
	return nil
}

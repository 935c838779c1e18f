package accounts_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	accounts "github.com/quipulabs/go-accounts"
)

// memUsers is an in memory Users store. Lookup misses surface sql.ErrNoRows
// and duplicate emails fail the same way the sqlite unique index would.
type memUsers struct {
	mu      sync.Mutex
	records map[uuid.UUID]*accounts.User
}

func newMemUsers() *memUsers {
	return &memUsers{records: map[uuid.UUID]*accounts.User{}}
}

func clone(u *accounts.User) *accounts.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (m *memUsers) GetByID(ctx context.Context, id uuid.UUID) (*accounts.User, error) {
	return m.GetByIDTx(ctx, nil, id)
}

func (m *memUsers) GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*accounts.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.records[id]; ok {
		return clone(u), nil
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*accounts.User, error) {
	return m.GetByEmailTx(ctx, nil, email)
}

func (m *memUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*accounts.User, error) {
	return m.findOne(func(u *accounts.User) bool { return u.Email == email })
}

func (m *memUsers) GetByVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*accounts.User, error) {
	if token == "" {
		return nil, sql.ErrNoRows
	}
	return m.findOne(func(u *accounts.User) bool { return u.VerificationToken == token })
}

func (m *memUsers) GetByResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*accounts.User, error) {
	if token == "" {
		return nil, sql.ErrNoRows
	}
	return m.findOne(func(u *accounts.User) bool { return u.ResetToken == token })
}

func (m *memUsers) findOne(match func(*accounts.User) bool) (*accounts.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.records {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) Create(ctx context.Context, record *accounts.User) (*accounts.User, error) {
	return m.CreateTx(ctx, nil, record)
}

func (m *memUsers) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.User) (*accounts.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.records {
		if u.Email == record.Email {
			return nil, errors.New("UNIQUE constraint failed: users.email")
		}
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Role == "" {
		record.Role = accounts.RoleUser
	}
	if record.Avatar == "" {
		record.Avatar = accounts.DefaultAvatar
	}
	now := time.Now()
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}
	if record.UpdatedAt == nil {
		record.UpdatedAt = &now
	}

	m.records[record.ID] = clone(record)
	return clone(record), nil
}

func (m *memUsers) Update(ctx context.Context, record *accounts.User) (*accounts.User, error) {
	return m.UpdateTx(ctx, nil, record)
}

func (m *memUsers) UpdateTx(ctx context.Context, tx bun.IDB, record *accounts.User) (*accounts.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	m.records[record.ID] = clone(record)
	return clone(record), nil
}

func (m *memUsers) VerifyAccountTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.records[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.IsVerified = true
	u.PasswordHash = passwordHash
	u.VerificationToken = ""
	u.Touch()
	return nil
}

func (m *memUsers) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.records[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	u.ResetToken = ""
	u.ResetTokenExpiresAt = nil
	u.Touch()
	return nil
}

func (m *memUsers) List(ctx context.Context) ([]*accounts.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*accounts.User, 0, len(m.records))
	for _, u := range m.records {
		out = append(out, clone(u))
	}
	return out, nil
}

func (m *memUsers) CountAll(ctx context.Context) (int, error) {
	return m.CountAllTx(ctx, nil)
}

func (m *memUsers) CountAllTx(ctx context.Context, tx bun.IDB) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

func (m *memUsers) DeleteByID(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.records, id)
	return nil
}

var _ accounts.Users = (*memUsers)(nil)

// fakeRepo runs transactional closures directly; the in memory store needs
// no real transaction.
type fakeRepo struct {
	users *memUsers
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: newMemUsers()}
}

func (f *fakeRepo) Users() accounts.Users { return f.users }
func (f *fakeRepo) Validate() error       { return nil }
func (f *fakeRepo) MustValidate()         {}

func (f *fakeRepo) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

var _ accounts.RepositoryManager = (*fakeRepo)(nil)

type sentMail struct {
	kind   string
	email  string
	token  string
	origin string
}

// captureMailer records sends instead of delivering anything.
type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *captureMailer) SendVerificationEmail(ctx context.Context, user *accounts.User, origin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{
		kind:   "verification",
		email:  user.Email,
		token:  user.VerificationToken,
		origin: origin,
	})
	return nil
}

func (m *captureMailer) SendPasswordResetEmail(ctx context.Context, user *accounts.User, origin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{
		kind:   "reset",
		email:  user.Email,
		token:  user.ResetToken,
		origin: origin,
	})
	return nil
}

var _ accounts.Mailer = (*captureMailer)(nil)

// seedUser creates an active account directly in the store.
func seedUser(t interface{ Fatalf(string, ...any) }, repo *fakeRepo, email, password string, role accounts.UserRole) *accounts.User {
	hash, err := accounts.HashPassword(password)
	if err != nil {
		t.Fatalf("seed user hash: %v", err)
	}

	user, err := repo.users.Create(context.Background(), &accounts.User{
		FirstName:    "Pepe",
		LastName:     "Rone",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsVerified:   true,
	})
	if err != nil {
		t.Fatalf("seed user create: %v", err)
	}
	return user
}

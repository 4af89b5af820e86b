package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	messagesrepo "github.com/dmitrijs2005/messagely/internal/server/repositories/messages"
	usersrepo "github.com/dmitrijs2005/messagely/internal/server/repositories/users"
)

// --- in-memory fakes backing the service tests ---

type fakeUsersRepo struct {
	users map[string]*models.User

	createErr error
	getErr    error
	listErr   error
	updateErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.users[u.Username]; ok {
		return nil, common.ErrorConflict
	}
	cp := *u
	f.users[u.Username] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	names := make([]string, 0, len(f.users))
	for name := range f.users {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]*models.User, 0, len(names))
	for _, name := range names {
		cp := *f.users[name]
		result = append(result, &cp)
	}
	return result, nil
}

func (f *fakeUsersRepo) ListByUsernames(ctx context.Context, usernames []string) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	seen := make(map[string]struct{}, len(usernames))
	var result []*models.User
	for _, name := range usernames {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if u, ok := f.users[name]; ok {
			cp := *u
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakeUsersRepo) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[username]
	if !ok {
		return common.ErrorNotFound
	}
	u.LastLoginAt = at
	return nil
}

type fakeMessagesRepo struct {
	messages map[int64]*models.Message
	nextID   int64

	createErr error
	getErr    error
	markErr   error
	listErr   error
}

func newFakeMessagesRepo() *fakeMessagesRepo {
	return &fakeMessagesRepo{messages: make(map[int64]*models.Message), nextID: 1}
}

func (f *fakeMessagesRepo) Create(ctx context.Context, m *models.Message) (*models.Message, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *m
	cp.ID = f.nextID
	f.nextID++
	f.messages[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeMessagesRepo) Get(ctx context.Context, id int64) (*models.Message, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.messages[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMessagesRepo) MarkRead(ctx context.Context, id int64, at time.Time) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	m, ok := f.messages[id]
	if !ok || m.ReadAt != nil {
		return false, nil
	}
	stamp := at
	m.ReadAt = &stamp
	return true, nil
}

func (f *fakeMessagesRepo) ListFrom(ctx context.Context, username string) ([]*models.Message, error) {
	return f.list(username, func(m *models.Message) bool { return m.FromUsername == username })
}

func (f *fakeMessagesRepo) ListTo(ctx context.Context, username string) ([]*models.Message, error) {
	return f.list(username, func(m *models.Message) bool { return m.ToUsername == username })
}

func (f *fakeMessagesRepo) list(username string, match func(*models.Message) bool) ([]*models.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []*models.Message
	for id := int64(1); id < f.nextID; id++ {
		if m, ok := f.messages[id]; ok && match(m) {
			cp := *m
			result = append(result, &cp)
		}
	}
	return result, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	m *fakeMessagesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), m: newFakeMessagesRepo()}
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return f.u }
func (f *fakeRepoManager) Messages(db dbx.DBTX) messagesrepo.Repository       { return f.m }

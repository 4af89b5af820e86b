package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/config"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T, rm *fakeRepoManager) *UserService {
	t.Helper()
	cfg := &config.Config{BcryptCost: bcrypt.MinCost}
	return NewUserService(nil, rm, cfg)
}

func registerAlice(t *testing.T, s *UserService) {
	t.Helper()
	_, err := s.Register(context.Background(), RegisterParams{
		Username: "alice", Password: "pw-alice", FirstName: "Alice", LastName: "A", Phone: "555-0001",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
}

func TestRegister_Success(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)

	profile, err := s.Register(context.Background(), RegisterParams{
		Username: "alice", Password: "pw-alice", FirstName: "Alice", LastName: "A", Phone: "555-0001",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if profile.Username != "alice" || profile.FirstName != "Alice" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if profile.JoinAt.IsZero() || !profile.JoinAt.Equal(profile.LastLoginAt) {
		t.Fatalf("expected join_at = last_login_at = now, got %+v", profile)
	}

	stored := rm.u.users["alice"]
	if stored.PasswordHash == "pw-alice" || stored.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	s := newUserService(t, newFakeRepoManager())

	params := RegisterParams{Username: "alice", Password: "pw", FirstName: "Alice", LastName: "A", Phone: ""}
	if _, err := s.Register(context.Background(), params); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want common.ErrorValidation, got %v", err)
	}
}

func TestRegister_DuplicateKeepsOriginal(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)
	registerAlice(t, s)

	origLogin := rm.u.users["alice"].LastLoginAt

	_, err := s.Register(context.Background(), RegisterParams{
		Username: "alice", Password: "other", FirstName: "Imposter", LastName: "X", Phone: "555-9999",
	})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want common.ErrorConflict, got %v", err)
	}
	if !rm.u.users["alice"].LastLoginAt.Equal(origLogin) {
		t.Fatalf("duplicate registration must not touch the original user")
	}
}

func TestAuthenticate(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)
	registerAlice(t, s)

	ok, err := s.Authenticate(context.Background(), "alice", "pw-alice")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if !ok {
		t.Fatalf("correct password must authenticate")
	}

	ok, err = s.Authenticate(context.Background(), "alice", "wrong")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if ok {
		t.Fatalf("wrong password must not authenticate")
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	s := newUserService(t, newFakeRepoManager())

	_, err := s.Authenticate(context.Background(), "carol", "anything")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestTouchLogin(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)
	registerAlice(t, s)

	before := rm.u.users["alice"].LastLoginAt
	time.Sleep(time.Millisecond)

	if err := s.TouchLogin(context.Background(), "alice"); err != nil {
		t.Fatalf("TouchLogin error: %v", err)
	}
	if !rm.u.users["alice"].LastLoginAt.After(before) {
		t.Fatalf("last_login_at was not advanced")
	}

	if err := s.TouchLogin(context.Background(), "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestList_PublicFieldsOnly(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)
	registerAlice(t, s)

	_, err := s.Register(context.Background(), RegisterParams{
		Username: "bob", Password: "pw-bob", FirstName: "Bob", LastName: "B", Phone: "555-0002",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 || list[0].Username != "alice" || list[1].Username != "bob" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestMessagesTo_ExpandsSender(t *testing.T) {
	rm := newFakeRepoManager()
	us := newUserService(t, rm)
	registerAlice(t, us)
	_, err := us.Register(context.Background(), RegisterParams{
		Username: "bob", Password: "pw-bob", FirstName: "Bob", LastName: "B", Phone: "555-0002",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	ms, mmock := newMessageService(t, rm)
	mmock.ExpectBegin()
	mmock.ExpectCommit()
	sent, err := ms.Create(context.Background(), "alice", "bob", "hello")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if sent.ReadAt != nil {
		t.Fatalf("new message must be unread")
	}

	if _, err := ms.MarkRead(context.Background(), sent.ID, "bob"); err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}

	inbox, err := us.MessagesTo(context.Background(), "bob")
	if err != nil {
		t.Fatalf("MessagesTo error: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("unexpected inbox: %+v", inbox)
	}
	got := inbox[0]
	if got.ReadAt == nil {
		t.Fatalf("message must be read after MarkRead")
	}
	if got.From == nil || got.From.Username != "alice" || got.From.FirstName != "Alice" || got.From.Phone != "555-0001" {
		t.Fatalf("sender not expanded to public profile: %+v", got.From)
	}
}

func TestMessagesFrom_EmptyIsNotAnError(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)
	registerAlice(t, s)

	out, err := s.MessagesFrom(context.Background(), "alice")
	if err != nil {
		t.Fatalf("MessagesFrom error: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}

func TestMessagesFrom_UnknownUser(t *testing.T) {
	s := newUserService(t, newFakeRepoManager())

	_, err := s.MessagesFrom(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

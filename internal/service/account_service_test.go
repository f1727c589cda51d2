package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thejerf/abtime"

	"github.com/campusworks/college-portal/internal/domain"
	"github.com/campusworks/college-portal/internal/events"
)

type accountFixture struct {
	svc        *AccountService
	users      *memUserRepo
	verifier   *countingVerifier
	tokens     *stubTokens
	guard      *memGuard
	dispatcher *recordingDispatcher
	clock      *abtime.ManualTime
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		users:      newMemUserRepo(),
		verifier:   &countingVerifier{},
		tokens:     &stubTokens{},
		guard:      newMemGuard(3),
		dispatcher: &recordingDispatcher{},
		clock:      abtime.NewManualAtTime(time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)),
	}
	f.svc = NewAccountService(AccountDependencies{
		UserRepo:   f.users,
		Hasher:     f.verifier,
		Tokens:     f.tokens,
		Guard:      f.guard,
		Clock:      f.clock,
		Dispatcher: f.dispatcher,
	})
	return f
}

func TestSignupForcesStudentRole(t *testing.T) {
	f := newAccountFixture()

	identity, err := f.svc.Signup(context.Background(), "Ada", "Ada@College.edu ", "pw-123456")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if identity.Role != domain.RoleStudent {
		t.Fatalf("expected student, got %s", identity.Role)
	}
	if identity.Subject != "ada@college.edu" {
		t.Fatalf("expected normalized email, got %q", identity.Subject)
	}
	stored, err := f.users.GetByEmail(context.Background(), "ada@college.edu")
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.PasswordHash == "pw-123456" {
		t.Fatalf("secret stored in the clear")
	}
	if got := f.dispatcher.types(); len(got) != 1 || got[0] != events.EventUserRegistered {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	if _, err := f.svc.Signup(ctx, "A", "a@b.com", "x"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := f.svc.Signup(ctx, "A again", "A@B.com", "y"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	users, _ := f.users.List(ctx)
	if len(users) != 1 {
		t.Fatalf("expected a single stored user, got %d", len(users))
	}
}

func TestLoginIssuesTokenWithStoredRole(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	if _, err := f.svc.AdminCreateUser(ctx, "Hod", "hod@college.edu", "secret-1", domain.RoleHOD); err != nil {
		t.Fatalf("create: %v", err)
	}

	session, err := f.svc.Login(ctx, "HOD@college.edu", "secret-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.TokenType != domain.TokenTypeBearer || session.AccessToken == "" {
		t.Fatalf("unexpected session %+v", session)
	}
	if f.tokens.subject != "hod@college.edu" || f.tokens.role != domain.RoleHOD {
		t.Fatalf("token issued for %q/%s", f.tokens.subject, f.tokens.role)
	}
	if !session.IssuedAt.Equal(f.clock.Now()) {
		t.Fatalf("expected issue time from clock, got %v", session.IssuedAt)
	}
	if f.verifier.verifies != 1 {
		t.Fatalf("expected one verify, got %d", f.verifier.verifies)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	if _, err := f.svc.Signup(ctx, "Stu", "stu@college.edu", "right"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	f.verifier.verifies = 0
	_, unknownErr := f.svc.Login(ctx, "nobody@college.edu", "right")
	if f.verifier.verifies != 1 {
		t.Fatalf("unknown email: expected one verify, got %d", f.verifier.verifies)
	}

	f.verifier.verifies = 0
	_, wrongErr := f.svc.Login(ctx, "stu@college.edu", "wrong")
	if f.verifier.verifies != 1 {
		t.Fatalf("wrong secret: expected one verify, got %d", f.verifier.verifies)
	}

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) || !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("error messages differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginLockout(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	if _, err := f.svc.Signup(ctx, "Stu", "stu@college.edu", "right"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Login(ctx, "stu@college.edu", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	f.verifier.verifies = 0
	if _, err := f.svc.Login(ctx, "stu@college.edu", "right"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("locked account must be refused, got %v", err)
	}
	if f.verifier.verifies != 1 {
		t.Fatalf("locked path: expected one verify, got %d", f.verifier.verifies)
	}
	if f.guard.failures["stu@college.edu"] != 3 {
		t.Fatalf("locked attempts must not extend the counter, got %d", f.guard.failures["stu@college.edu"])
	}

	delete(f.guard.failures, "stu@college.edu")
	if _, err := f.svc.Login(ctx, "stu@college.edu", "right"); err != nil {
		t.Fatalf("login after window: %v", err)
	}
	if f.guard.resets != 1 {
		t.Fatalf("expected counter reset on success")
	}
}

func TestAdminCreateUserRejectsUnknownRole(t *testing.T) {
	f := newAccountFixture()
	_, err := f.svc.AdminCreateUser(context.Background(), "X", "x@college.edu", "pw", domain.Role("dean"))
	if !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestUpdateRole(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	created, err := f.svc.Signup(ctx, "Tea", "tea@college.edu", "pw")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	updated, err := f.svc.UpdateRole(ctx, created.ID, domain.RoleTeacher)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != domain.RoleTeacher {
		t.Fatalf("expected teacher, got %s", updated.Role)
	}

	last := f.dispatcher.events[len(f.dispatcher.events)-1]
	payload, ok := last.Payload.(events.UserRoleChangedPayload)
	if !ok || payload.OldRole != domain.RoleStudent || payload.NewRole != domain.RoleTeacher {
		t.Fatalf("unexpected role change event %+v", last)
	}

	if _, err := f.svc.UpdateRole(ctx, 42, domain.RoleHOD); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.svc.UpdateRole(ctx, created.ID, domain.Role("dean")); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestEnsureSuperuserIsIdempotent(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	created, err := f.svc.EnsureSuperuser(ctx, "Root", "root@college.edu", "pw")
	if err != nil || !created {
		t.Fatalf("expected creation, got %v, %v", created, err)
	}
	created, err = f.svc.EnsureSuperuser(ctx, "Root", "root@college.edu", "pw")
	if err != nil || created {
		t.Fatalf("expected no-op, got %v, %v", created, err)
	}
	user, err := f.users.GetByEmail(ctx, "root@college.edu")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if user.Role != domain.RoleSuperuser {
		t.Fatalf("expected superuser, got %s", user.Role)
	}
}

func TestListUsersProjectsIdentities(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	for _, email := range []string{"a@college.edu", "b@college.edu"} {
		if _, err := f.svc.Signup(ctx, "U", email, "pw"); err != nil {
			t.Fatalf("signup: %v", err)
		}
	}

	users, err := f.svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 || users[0].Subject != "a@college.edu" {
		t.Fatalf("unexpected users %+v", users)
	}
}

package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/studyhub-dev/studyhub/db"
	"github.com/studyhub-dev/studyhub/internal/auth"
	"github.com/studyhub-dev/studyhub/internal/models"
	"github.com/studyhub-dev/studyhub/internal/repository"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	auth      *AuthService
	projects  *ProjectService
	messages  *MessageService
	community *CommunityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.ConnectDatabase(db.Options{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "studyhub.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.MigrateDatabase(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })

	signer, err := auth.NewTokenSigner("test-secret")
	if err != nil {
		t.Fatalf("signer: %v", err)
	}

	users := repository.NewUserRepository(conn)
	projects := repository.NewProjectRepository(conn)
	messages := repository.NewMessageRepository(conn)
	sessions := repository.NewSessionRepository(conn)

	return &testEnv{
		db:        conn,
		auth:      NewAuthService(users, sessions, signer, time.Hour),
		projects:  NewProjectService(projects),
		messages:  NewMessageService(projects, messages),
		community: NewCommunityService(users),
	}
}

func (e *testEnv) register(t *testing.T, name, email, role string) *models.User {
	t.Helper()

	user, err := e.auth.Register(context.Background(), RegisterInput{
		Name:        name,
		Email:       email,
		Institution: "State University",
		Role:        role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()

	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestIsEduEmail(t *testing.T) {
	cases := map[string]bool{
		"alice@school.edu":     true,
		"bob@univ.ac.uk":       true,
		"carol@dept.edu.au":    true,
		"DAVE@COLLEGE.EDU":     true,
		"eve@gmail.com":        false,
		"frank@academy.com":    false,
		"":                     false,
		"grace@school.educate": true,
	}

	for email, want := range cases {
		if got := IsEduEmail(email); got != want {
			t.Fatalf("IsEduEmail(%q) = %v, want %v", email, got, want)
		}
	}
}

func TestRegisterStoresUserWithToday(t *testing.T) {
	env := newTestEnv(t)
	today := time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)
	env.auth.SetClock(func() time.Time { return today })

	user := env.register(t, "Alice", "alice@school.edu", "Student")

	if env.count(t, &models.User{}) != 1 {
		t.Fatal("expected exactly one user row")
	}

	var stored models.User
	if err := env.db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.Name != "Alice" || stored.Email != "alice@school.edu" || stored.Institution != "State University" || stored.Role != "Student" {
		t.Fatalf("stored user = %+v", stored)
	}
	if got := time.Time(stored.JoinDate).Format("2006-01-02"); got != "2026-10-18" {
		t.Fatalf("join date = %s, want 2026-10-18", got)
	}
}

func TestRegisterRejectsNonEducationalEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), RegisterInput{Name: "Eve", Email: "eve@gmail.com", Role: "Student"})
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("register = %v, want ErrInvalidEmail", err)
	}
	if env.count(t, &models.User{}) != 0 {
		t.Fatal("expected no user rows")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Alice", "alice@school.edu", "Student")

	_, err := env.auth.Register(context.Background(), RegisterInput{Name: "Alice again", Email: "alice@school.edu", Role: "Teacher"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("register duplicate = %v, want ErrEmailTaken", err)
	}
	if env.count(t, &models.User{}) != 1 {
		t.Fatal("expected one user row")
	}
}

func TestRegisterDefaultsEmptyRoleToStudent(t *testing.T) {
	env := newTestEnv(t)

	user := env.register(t, "Alice", "alice@school.edu", "  ")
	if user.Role != RoleStudent {
		t.Fatalf("role = %q, want %q", user.Role, RoleStudent)
	}
}

func TestLoginUnknownEmailLeavesSessionsUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Alice", "alice@school.edu", "Student")

	_, err := env.auth.Login(context.Background(), "nobody@school.edu")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("login = %v, want ErrUserNotFound", err)
	}
	if env.count(t, &models.Session{}) != 0 {
		t.Fatal("expected no session rows")
	}
}

func TestLoginIgnoresSurroundingWhitespace(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")

	result, err := env.auth.Login(context.Background(), "  alice@school.edu\t")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.ID != alice.ID {
		t.Fatalf("user = %d, want %d", result.User.ID, alice.ID)
	}
}

func TestLoginResolveLogout(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")

	result, err := env.auth.Login(context.Background(), "alice@school.edu")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	current, err := env.auth.Resolve(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if current.UserID != alice.ID || !current.LoggedIn() {
		t.Fatalf("current = %+v, want logged in as %d", current, alice.ID)
	}
	if current.User.Name != "Alice" || current.User.Role != "Student" {
		t.Fatalf("user = %+v", current.User)
	}

	if err := env.auth.Logout(context.Background(), current.SessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := env.auth.Resolve(context.Background(), result.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("resolve after logout = %v, want ErrInvalidSession", err)
	}
}

func TestResolveExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Alice", "alice@school.edu", "Student")

	now := time.Now()
	env.auth.SetClock(func() time.Time { return now })

	result, err := env.auth.Login(context.Background(), "alice@school.edu")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	env.auth.SetClock(func() time.Time { return now.Add(2 * time.Hour) })

	if _, err := env.auth.Resolve(context.Background(), result.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("resolve expired = %v, want ErrInvalidSession", err)
	}
}

func TestResolveKeepsSessionWhenUserIsGone(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")

	result, err := env.auth.Login(context.Background(), "alice@school.edu")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := env.db.Delete(&models.User{}, alice.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	current, err := env.auth.Resolve(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if current.LoggedIn() {
		t.Fatal("expected session without user to render as logged out")
	}
	if current.UserID != alice.ID {
		t.Fatalf("user id = %d, want %d", current.UserID, alice.ID)
	}
	if env.count(t, &models.Session{}) != 1 {
		t.Fatal("expected session row to be kept")
	}
}

func TestResolveRejectsGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.auth.Resolve(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("resolve = %v, want ErrInvalidSession", err)
	}
}

func TestCreateProjectAddsCreatorAsOnlyMember(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")

	project, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{
		Title:      "Robotics",
		Skills:     []string{"Programming"},
		MaxMembers: 3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if env.count(t, &models.Project{}) != 1 {
		t.Fatal("expected exactly one project row")
	}
	if project.CreatedBy != alice.ID {
		t.Fatalf("created_by = %d, want %d", project.CreatedBy, alice.ID)
	}

	var members []models.ProjectMember
	if err := env.db.Find(&members).Error; err != nil {
		t.Fatalf("load members: %v", err)
	}
	if len(members) != 1 || members[0].ProjectID != project.ID || members[0].UserID != alice.ID {
		t.Fatalf("members = %+v, want only alice on %d", members, project.ID)
	}
}

func TestCreateProjectAllowsEmptyTitle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")

	if _, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{}); err != nil {
		t.Fatalf("create with empty fields: %v", err)
	}
}

func TestBrowseMarksMembershipAndCreator(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")
	bob := env.register(t, "Bob", "bob@univ.ac.uk", "Student")

	if _, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{Title: "Robotics", Description: "Line follower"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.projects.Create(context.Background(), bob.ID, CreateProjectInput{Title: "Poetry", Description: "Verses"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	listings, err := env.projects.Browse(context.Background(), alice.ID, "")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}
	if !listings[0].IsMember || listings[0].CreatorName != "Alice" {
		t.Fatalf("robotics listing = %+v", listings[0])
	}
	if listings[1].IsMember || listings[1].CreatorName != "Bob" {
		t.Fatalf("poetry listing = %+v", listings[1])
	}

	filtered, err := env.projects.Browse(context.Background(), alice.ID, "Verse")
	if err != nil {
		t.Fatalf("browse filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Project.Title != "Poetry" {
		t.Fatalf("filtered = %+v, want only Poetry", filtered)
	}
}

func TestJoinTwiceKeepsSingleMembership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")
	bob := env.register(t, "Bob", "bob@univ.ac.uk", "Student")

	project, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{Title: "Robotics"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := env.projects.Join(context.Background(), bob.ID, project.ID)
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	if first.AlreadyMember {
		t.Fatal("first join should not report an existing membership")
	}

	second, err := env.projects.Join(context.Background(), bob.ID, project.ID)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if !second.AlreadyMember {
		t.Fatal("second join should report an existing membership")
	}

	if env.count(t, &models.ProjectMember{}) != 2 {
		t.Fatal("expected two membership rows: alice and bob once each")
	}
}

func TestJoinUnknownProject(t *testing.T) {
	env := newTestEnv(t)
	bob := env.register(t, "Bob", "bob@univ.ac.uk", "Student")

	if _, err := env.projects.Join(context.Background(), bob.ID, 999); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("join = %v, want ErrProjectNotFound", err)
	}
}

func TestMineListsRosterAndCount(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")
	bob := env.register(t, "Bob", "bob@univ.ac.uk", "Teacher")

	project, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{Title: "Robotics"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{Title: "Private"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.projects.Join(context.Background(), bob.ID, project.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	mine, err := env.projects.Mine(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("bob projects = %d, want 1", len(mine))
	}
	if mine[0].Project.Title != "Robotics" || mine[0].Project.MemberCount != 2 {
		t.Fatalf("project = %+v", mine[0].Project)
	}
	if len(mine[0].Members) != 2 || mine[0].Members[0].Name != "Alice" || mine[0].Members[1].Name != "Bob" {
		t.Fatalf("roster = %+v", mine[0].Members)
	}
}

func TestSendRejectsWhitespace(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")
	project, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{Title: "Robotics"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, body := range []string{"", "   ", "\n\t "} {
		if _, err := env.messages.Send(context.Background(), alice.ID, project.ID, body); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("send %q = %v, want ErrEmptyMessage", body, err)
		}
	}
	if env.count(t, &models.Message{}) != 0 {
		t.Fatal("expected no message rows")
	}
}

func TestSendStoresMessageAndResetsForm(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")
	project, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{Title: "Robotics"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	before := time.Now().Truncate(time.Second)

	result, err := env.messages.Send(context.Background(), alice.ID, project.ID, "  hello  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !result.ResetForm {
		t.Fatal("expected form reset")
	}

	var stored []models.Message
	if err := env.db.Find(&stored).Error; err != nil {
		t.Fatalf("load messages: %v", err)
	}
	if len(stored) != 1 || stored[0].Message != "hello" {
		t.Fatalf("messages = %+v, want one %q", stored, "hello")
	}
	if stored[0].SentDate.Before(before) {
		t.Fatalf("sent date %v before submission %v", stored[0].SentDate, before)
	}
}

func TestSendRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")
	bob := env.register(t, "Bob", "bob@univ.ac.uk", "Student")
	project, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{Title: "Robotics"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := env.messages.Send(context.Background(), bob.ID, project.ID, "hi"); !errors.Is(err, ErrNotMember) {
		t.Fatalf("send = %v, want ErrNotMember", err)
	}
}

func TestOpenConversationSelectsAndOrders(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")

	robotics, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{Title: "Robotics"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	poetry, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{Title: "Poetry"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	for i, body := range []string{"one", "two", "three"} {
		sent := base.Add(time.Duration(i) * time.Minute)
		env.messages.SetClock(func() time.Time { return sent })
		if _, err := env.messages.Send(context.Background(), alice.ID, poetry.ID, body); err != nil {
			t.Fatalf("send %q: %v", body, err)
		}
	}

	first, err := env.messages.Open(context.Background(), alice.ID, 0)
	if err != nil {
		t.Fatalf("open default: %v", err)
	}
	if first.Selected == nil || first.Selected.ID != robotics.ID {
		t.Fatalf("default selection = %+v, want robotics", first.Selected)
	}
	if len(first.Messages) != 0 {
		t.Fatalf("robotics messages = %d, want 0", len(first.Messages))
	}

	conv, err := env.messages.Open(context.Background(), alice.ID, poetry.ID)
	if err != nil {
		t.Fatalf("open poetry: %v", err)
	}
	if len(conv.Projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(conv.Projects))
	}
	got := []string{}
	for _, m := range conv.Messages {
		got = append(got, m.Message)
	}
	if len(got) != 3 || got[0] != "three" || got[1] != "two" || got[2] != "one" {
		t.Fatalf("messages = %v, want newest first", got)
	}
	if conv.Messages[0].SenderName != "Alice" {
		t.Fatalf("sender = %q, want Alice", conv.Messages[0].SenderName)
	}
}

func TestSendOrdersAcrossDaylightSavingFallBack(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")
	project, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{Title: "Robotics"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 01:50 EDT, then 01:10 EST twenty minutes later.
	for _, msg := range []struct {
		body string
		at   time.Time
	}{
		{"older", time.Date(2026, 11, 1, 5, 50, 0, 0, time.UTC).In(newYork)},
		{"newer", time.Date(2026, 11, 1, 6, 10, 0, 0, time.UTC).In(newYork)},
	} {
		at := msg.at
		env.messages.SetClock(func() time.Time { return at })
		if _, err := env.messages.Send(context.Background(), alice.ID, project.ID, msg.body); err != nil {
			t.Fatalf("send %q: %v", msg.body, err)
		}
	}

	messages, err := env.messages.List(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages) != 2 || messages[0].Message != "newer" {
		t.Fatalf("first message = %+v, want %q first", messages, "newer")
	}
}

func TestOpenConversationWithoutProjects(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")

	conv, err := env.messages.Open(context.Background(), alice.ID, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if conv.Selected != nil || len(conv.Projects) != 0 {
		t.Fatalf("conversation = %+v, want empty", conv)
	}
}

func TestOpenConversationRejectsForeignProject(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@school.edu", "Student")
	bob := env.register(t, "Bob", "bob@univ.ac.uk", "Student")

	project, err := env.projects.Create(context.Background(), alice.ID, CreateProjectInput{Title: "Robotics"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.projects.Create(context.Background(), bob.ID, CreateProjectInput{Title: "Bob's"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := env.messages.Open(context.Background(), bob.ID, project.ID); !errors.Is(err, ErrNotMember) {
		t.Fatalf("open = %v, want ErrNotMember", err)
	}
}

func TestDirectoryPartitionsByRole(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Alice", "alice@school.edu", "Student")
	env.register(t, "Bob", "bob@univ.ac.uk", "teacher")
	env.register(t, "Carol", "carol@school.edu", "STUDENT")
	env.register(t, "Mallory", "mallory@school.edu", "Mentor")

	dir, err := env.community.Directory(context.Background())
	if err != nil {
		t.Fatalf("directory: %v", err)
	}

	if len(dir.Students) != 2 || dir.Students[0].Name != "Alice" || dir.Students[1].Name != "Carol" {
		t.Fatalf("students = %+v", dir.Students)
	}
	if len(dir.Teachers) != 1 || dir.Teachers[0].Name != "Bob" {
		t.Fatalf("teachers = %+v", dir.Teachers)
	}
	for _, u := range append(dir.Students, dir.Teachers...) {
		if u.Name == "Mallory" {
			t.Fatal("mentor should appear in neither group")
		}
	}
}

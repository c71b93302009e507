package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thereayou/duochat/internal/models"
	"github.com/thereayou/duochat/internal/storage"
	"github.com/thereayou/duochat/pkg/auth"
)

var testSeeds = []SeedUser{
	{Username: "Gauri", Password: "18072007"},
	{Username: "Btye", Password: "18042004"},
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	reg, err := New(store, testSeeds)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return reg
}

// checkInvariant проверяет: online ⇔ socketId установлен ⇔ lastSeen пуст
func checkInvariant(t *testing.T, u *models.User) {
	t.Helper()

	if u.IsOnline {
		if u.SocketID == nil {
			t.Errorf("user %s online but socketId is nil", u.Username)
		}
		if u.LastSeen != nil {
			t.Errorf("user %s online but lastSeen is set", u.Username)
		}
	} else {
		if u.SocketID != nil {
			t.Errorf("user %s offline but socketId is set", u.Username)
		}
	}
}

func TestVerify(t *testing.T) {
	reg := newTestRegistry(t)

	if !reg.Verify("Gauri", "18072007") {
		t.Error("correct credentials rejected")
	}
	if reg.Verify("Gauri", "wrong") {
		t.Error("wrong password accepted")
	}
	if reg.Verify("nobody", "18072007") {
		t.Error("unknown user accepted")
	}
}

func TestVerifyDoesNotMutate(t *testing.T) {
	reg := newTestRegistry(t)

	token, err := reg.IssueToken("Gauri")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	reg.Verify("Gauri", "wrong")

	if _, ok := reg.Resolve(token); !ok {
		t.Error("failed login mutated session state")
	}
	if reg.users["Gauri"].Token != token {
		t.Error("failed login changed stored token")
	}
}

func TestIssueTokenFreshness(t *testing.T) {
	reg := newTestRegistry(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		token, err := reg.IssueToken("Gauri")
		if err != nil {
			t.Fatalf("IssueToken: %v", err)
		}
		if seen[token] {
			t.Fatalf("token %q issued twice", token)
		}
		seen[token] = true
	}
}

func TestIssueTokenInvalidatesPrevious(t *testing.T) {
	reg := newTestRegistry(t)

	old, _ := reg.IssueToken("Gauri")
	current, _ := reg.IssueToken("Gauri")

	if _, ok := reg.Resolve(old); ok {
		t.Error("previous token still resolves after re-login")
	}
	user, ok := reg.Resolve(current)
	if !ok || user.Username != "Gauri" {
		t.Error("current token does not resolve")
	}
}

func TestIssueTokenUnknownUser(t *testing.T) {
	reg := newTestRegistry(t)

	if _, err := reg.IssueToken("nobody"); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestRevokeToken(t *testing.T) {
	reg := newTestRegistry(t)

	token, _ := reg.IssueToken("Gauri")
	reg.MarkOnline("Gauri", "socket-1")

	if !reg.RevokeToken(token) {
		t.Fatal("RevokeToken returned false for known token")
	}
	if _, ok := reg.Resolve(token); ok {
		t.Error("token resolves after revoke")
	}

	user := reg.users["Gauri"]
	if user.IsOnline {
		t.Error("user still online after revoke")
	}
	if user.LastSeen == nil {
		t.Error("lastSeen not set after revoke")
	}
	checkInvariant(t, user)
}

func TestRevokeUnknownTokenIsNoop(t *testing.T) {
	reg := newTestRegistry(t)

	if reg.RevokeToken("deadbeef") {
		t.Error("RevokeToken returned true for unknown token")
	}
	if reg.RevokeToken("") {
		t.Error("RevokeToken returned true for empty token")
	}
}

func TestResolveEmptyToken(t *testing.T) {
	reg := newTestRegistry(t)

	if _, ok := reg.Resolve(""); ok {
		t.Error("empty token resolved")
	}
}

func TestPresenceInvariant(t *testing.T) {
	reg := newTestRegistry(t)

	steps := []func(){
		func() { reg.MarkOnline("Gauri", "s1") },
		func() { reg.MarkOnline("Gauri", "s2") },
		func() { reg.MarkOffline("Gauri") },
		func() { reg.MarkOffline("Gauri") },
		func() { reg.MarkOnline("Gauri", "s3") },
	}

	for i, step := range steps {
		step()
		checkInvariant(t, reg.users["Gauri"])
		if t.Failed() {
			t.Fatalf("invariant broken after step %d", i)
		}
	}
}

func TestPresenceEvents(t *testing.T) {
	reg := newTestRegistry(t)

	online, ok := reg.MarkOnline("Gauri", "s1")
	if !ok {
		t.Fatal("MarkOnline failed for known user")
	}
	if !online.IsOnline || online.LastSeen != nil || online.Username != "Gauri" {
		t.Errorf("unexpected online event: %+v", online)
	}

	offline, ok := reg.MarkOffline("Gauri")
	if !ok {
		t.Fatal("MarkOffline failed for known user")
	}
	if offline.IsOnline || offline.LastSeen == nil {
		t.Errorf("unexpected offline event: %+v", offline)
	}

	if _, ok := reg.MarkOnline("nobody", "s1"); ok {
		t.Error("MarkOnline succeeded for unknown user")
	}
}

func TestOnlineUsersOrder(t *testing.T) {
	reg := newTestRegistry(t)

	reg.MarkOnline("Gauri", "s1")
	reg.MarkOnline("Btye", "s2")

	online := reg.OnlineUsers()
	if len(online) != 2 {
		t.Fatalf("expected 2 online users, got %d", len(online))
	}
	// Порядок обхода реестра: имена отсортированы
	if online[0].Username != "Btye" || online[1].Username != "Gauri" {
		t.Errorf("unexpected order: %s, %s", online[0].Username, online[1].Username)
	}

	reg.MarkOffline("Btye")
	online = reg.OnlineUsers()
	if len(online) != 1 || online[0].Username != "Gauri" {
		t.Errorf("expected only Gauri online, got %+v", online)
	}
}

func TestSeedFromStore(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	hash, _ := auth.HashPassword("secret")
	saved := map[string]*models.User{
		"Carol": {Username: "Carol", PasswordHash: hash, Token: "tok"},
	}
	if err := store.SaveUsers(saved); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}

	reg, err := New(store, testSeeds)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Документ непустой — seed-ы не применяются
	if reg.Verify("Gauri", "18072007") {
		t.Error("seed user present despite non-empty store")
	}
	if !reg.Verify("Carol", "secret") {
		t.Error("stored user not loaded")
	}
	if user, ok := reg.Resolve("tok"); !ok || user.Username != "Carol" {
		t.Error("stored token not resolvable")
	}
}

func TestSeedOnCorruptStore(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	// Повреждённый документ — не фатальная ошибка: реестр стартует с seed-ами
	reg, err := New(store, testSeeds)
	if err != nil {
		t.Fatalf("New failed on corrupt users document: %v", err)
	}
	if !reg.Verify("Gauri", "18072007") {
		t.Error("defaults not seeded after corrupt users document")
	}

	token, err := reg.IssueToken("Gauri")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, ok := reg.Resolve(token); !ok {
		t.Error("registry not usable after corrupt users document")
	}
}

func TestMutationsPersist(t *testing.T) {
	dir := t.TempDir()
	store, _ := storage.NewFileStore(dir)
	reg, _ := New(store, testSeeds)

	token, _ := reg.IssueToken("Gauri")
	reg.MarkOnline("Gauri", "s1")

	// Второй реестр поверх того же каталога видит мутации
	store2, _ := storage.NewFileStore(dir)
	reg2, err := New(store2, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	user, ok := reg2.Resolve(token)
	if !ok {
		t.Fatal("token not persisted")
	}
	if !user.IsOnline || user.SocketID == nil {
		t.Error("presence not persisted")
	}
}

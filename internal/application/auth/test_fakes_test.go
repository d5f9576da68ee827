package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

type auditRecorder struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditRecorder) fn() func(action string, fields map[string]string) {
	return func(action string, fields map[string]string) {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.entries = append(a.entries, auditEntry{action: action, fields: fields})
	}
}

func (a *auditRecorder) last() (auditEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.entries) == 0 {
		return auditEntry{}, false
	}
	return a.entries[len(a.entries)-1], true
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID    map[string]domain.User
	byEmail map[string]domain.User

	// injected errors (if set, method returns error)
	getByIDErr     error
	getByEmailErr  error
	createErr      error
	lockErr        error
	unlockErr      error
	setRoleErr     error
	updatePwdErr   error
	setResetErr    error
	countByRoleErr error

	// record calls
	lockedIDs   []string
	unlockedIDs []string
	setRoles    []struct{ id, role string }
	updatedPwd  []struct{ id, hash string }
	resetSet    []struct {
		id, tokenHash string
		expiry        time.Time
	}
	resetCleared []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]domain.User{},
		byEmail: map[string]domain.User{},
	}
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updatePwdErr != nil {
		return f.updatePwdErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.PasswordHash = newHash
	f.byID[userID] = u
	f.byEmail[u.Email] = u
	f.updatedPwd = append(f.updatedPwd, struct{ id, hash string }{userID, newHash})
	return nil
}

func (f *fakeUserRepo) SetResetToken(ctx context.Context, userID, tokenHash string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setResetErr != nil {
		return f.setResetErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.ResetTokenHash = tokenHash
	u.ResetTokenExpiry = expiry
	f.byID[userID] = u
	f.byEmail[u.Email] = u
	f.resetSet = append(f.resetSet, struct {
		id, tokenHash string
		expiry        time.Time
	}{userID, tokenHash, expiry})
	return nil
}

func (f *fakeUserRepo) GetByResetTokenHash(ctx context.Context, tokenHash string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.byID {
		if u.ResetTokenHash != "" && u.ResetTokenHash == tokenHash {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrResetTokenNotFound()
}

func (f *fakeUserRepo) ClearResetToken(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.ResetTokenHash = ""
	u.ResetTokenExpiry = time.Time{}
	f.byID[userID] = u
	f.byEmail[u.Email] = u
	f.resetCleared = append(f.resetCleared, userID)
	return nil
}

func (f *fakeUserRepo) LockUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lockErr != nil {
		return f.lockErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.Locked = true
	f.byID[userID] = u
	f.byEmail[u.Email] = u
	f.lockedIDs = append(f.lockedIDs, userID)
	return nil
}

func (f *fakeUserRepo) UnlockUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.unlockErr != nil {
		return f.unlockErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.Locked = false
	f.byID[userID] = u
	f.byEmail[u.Email] = u
	f.unlockedIDs = append(f.unlockedIDs, userID)
	return nil
}

func (f *fakeUserRepo) SetRole(ctx context.Context, userID string, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setRoleErr != nil {
		return f.setRoleErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.Role = role
	f.byID[userID] = u
	f.byEmail[u.Email] = u
	f.setRoles = append(f.setRoles, struct{ id, role string }{userID, role})
	return nil
}

func (f *fakeUserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.countByRoleErr != nil {
		return 0, f.countByRoleErr
	}
	cnt := 0
	for _, u := range f.byID {
		if u.Role == role {
			cnt++
		}
	}
	return cnt, nil
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if h.compareFn != nil {
		return h.compareFn(hash, password)
	}
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

type fakeSigner struct {
	mu sync.Mutex

	signAccessErr  error
	signRefreshErr error
	verifyErr      error

	refreshSeq int
	// refresh token -> user id, as the verifier would recover it
	refreshTokens map[string]string
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{refreshTokens: map[string]string{}}
}

func (s *fakeSigner) SignAccessToken(userID string, role string, ttl time.Duration) (string, error) {
	if s.signAccessErr != nil {
		return "", s.signAccessErr
	}
	return fmt.Sprintf("jwt(%s,%s)", userID, role), nil
}

func (s *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	return TokenClaims{}, errors.New("not used")
}

func (s *fakeSigner) SignRefreshToken(userID string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signRefreshErr != nil {
		return "", s.signRefreshErr
	}
	s.refreshSeq++
	tok := fmt.Sprintf("rjwt(%s,%d)", userID, s.refreshSeq)
	s.refreshTokens[tok] = userID
	return tok, nil
}

func (s *fakeSigner) VerifyRefreshToken(token string) (TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.verifyErr != nil {
		return TokenClaims{}, s.verifyErr
	}
	uid, ok := s.refreshTokens[token]
	if !ok {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: uid}, nil
}

type fakeSessions struct {
	mu sync.Mutex

	// refreshToken -> userID
	byToken map[string]string

	addErr       error
	containsErr  error
	removeErr    error
	removeAllErr error

	removed    []string
	removedAll []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byToken: map[string]string{}}
}

func (s *fakeSessions) Add(ctx context.Context, userID, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.addErr != nil {
		return s.addErr
	}
	s.byToken[token] = userID
	return nil
}

func (s *fakeSessions) Contains(ctx context.Context, userID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.containsErr != nil {
		return false, s.containsErr
	}
	uid, ok := s.byToken[token]
	return ok && uid == userID, nil
}

func (s *fakeSessions) Remove(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.byToken, token)
	s.removed = append(s.removed, token)
	return nil
}

func (s *fakeSessions) RemoveAll(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removeAllErr != nil {
		return s.removeAllErr
	}
	for tok, uid := range s.byToken {
		if uid == userID {
			delete(s.byToken, tok)
		}
	}
	s.removedAll = append(s.removedAll, userID)
	return nil
}

func (s *fakeSessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byToken)
}

type fakePublisher struct {
	mu sync.Mutex

	registeredErr error
	resetErr      error

	registered []UserRegisteredEvent
	resets     []PasswordResetEvent
}

func (p *fakePublisher) PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.registeredErr != nil {
		return p.registeredErr
	}
	p.registered = append(p.registered, evt)
	return nil
}

func (p *fakePublisher) PublishPasswordReset(ctx context.Context, evt PasswordResetEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resetErr != nil {
		return p.resetErr
	}
	p.resets = append(p.resets, evt)
	return nil
}

/*
Service under test with all fakes wired
*/

type testEnv struct {
	svc      *Service
	users    *fakeUserRepo
	hasher   *fakeHasher
	signer   *fakeSigner
	sessions *fakeSessions
	pub      *fakePublisher
	audit    *auditRecorder
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:    newFakeUserRepo(),
		hasher:   &fakeHasher{},
		signer:   newFakeSigner(),
		sessions: newFakeSessions(),
		pub:      &fakePublisher{},
		audit:    &auditRecorder{},
	}
	env.svc = NewService(env.users, env.hasher, env.signer, env.sessions, env.pub, Config{
		AccessTTL:             15 * time.Minute,
		RefreshTTL:            7 * 24 * time.Hour,
		PasswordResetBaseURL:  "https://app.example.com/reset-password?token=",
		PasswordResetTokenTTL: 30 * time.Minute,
	}).WithAudit(env.audit.fn())
	return env
}

func (e *testEnv) seedUser(id, email, password, role string) domain.User {
	u := domain.User{
		ID:           id,
		FullName:     "Test User " + id,
		Email:        email,
		PasswordHash: "hash:" + password,
		Role:         role,
	}
	e.users.byID[id] = u
	e.users.byEmail[email] = u
	return u
}

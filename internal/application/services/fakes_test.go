package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"file-exchange-api/internal/domain/download"
	"file-exchange-api/internal/domain/file"
	"file-exchange-api/internal/domain/session"
	"file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/infrastructure/storage"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	nextID    user.ID
	users     map[user.ID]*user.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[user.ID]*user.User{}}
}

func (r *fakeUserRepo) find(match func(*user.User) bool) *user.User {
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (r *fakeUserRepo) FetchUserByID(_ context.Context, id user.ID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u *user.User) bool { return u.ID == id }), nil
}

func (r *fakeUserRepo) FetchUserByUsername(_ context.Context, username string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u *user.User) bool { return u.Username == username }), nil
}

func (r *fakeUserRepo) FetchUserByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u *user.User) bool { return u.Email == email }), nil
}

func (r *fakeUserRepo) CreateUser(_ context.Context, req user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if r.find(func(u *user.User) bool { return u.Username == req.Username }) != nil {
		return nil, user.ErrUsernameTaken
	}
	if r.find(func(u *user.User) bool { return u.Email == req.Email }) != nil {
		return nil, user.ErrEmailTaken
	}
	r.nextID++
	req.ID = r.nextID
	req.CreatedAt = time.Now().UTC()
	r.users[req.ID] = &req
	cp := req
	return &cp, nil
}

func (r *fakeUserRepo) VerifyByToken(_ context.Context, token string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			u.IsVerified = true
			u.VerificationToken = nil
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]session.Session{}}
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, s session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) FetchSession(_ context.Context, id string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeSessionRepo) DeleteSession(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) PruneSessions(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

type fakeFileRepo struct {
	mu        sync.Mutex
	nextID    file.ID
	files     map[file.ID]*file.File
	createErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: map[file.ID]*file.File{}}
}

func (r *fakeFileRepo) FetchFiles(_ context.Context) (file.Files, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := file.Files{}
	for _, f := range r.files {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFileRepo) FetchFileByID(_ context.Context, id file.ID) (*file.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFileRepo) CreateFile(_ context.Context, req file.File) (*file.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	req.ID = r.nextID
	req.UploadedAt = time.Now().UTC()
	r.files[req.ID] = &req
	cp := req
	return &cp, nil
}

func (r *fakeFileRepo) DeleteFile(_ context.Context, id file.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return false, nil
	}
	delete(r.files, id)
	return true, nil
}

// fakeTokenRepo serializes ConsumeToken the way the row lock does.
type fakeTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	tokens map[string]*download.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*download.Token{}}
}

func (r *fakeTokenRepo) CreateToken(_ context.Context, req download.Token) (*download.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	req.ID = r.nextID
	r.tokens[req.Token] = &req
	cp := req
	return &cp, nil
}

func (r *fakeTokenRepo) ConsumeToken(_ context.Context, token string, check func(download.Token) error) (*download.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok || t.Consumed {
		return nil, nil
	}
	if err := check(*t); err != nil {
		return nil, err
	}
	t.Consumed = true
	cp := *t
	return &cp, nil
}

func (r *fakeTokenRepo) PruneTokens(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(cutoff) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) get(token string) download.Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.tokens[token]
}

type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	saveErr error
	delErr  error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (b *fakeBlobs) Locate(key string) string { return "mem/" + key }

func (b *fakeBlobs) Save(_ context.Context, key string, r io.Reader, _ int64) (int64, error) {
	if b.saveErr != nil {
		return 0, b.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return int64(len(data)), nil
}

func (b *fakeBlobs) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *fakeBlobs) Delete(_ context.Context, key string) error {
	if b.delErr != nil {
		return b.delErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[key]; !ok {
		return storage.ErrNotFound
	}
	delete(b.objects, key)
	return nil
}

func (b *fakeBlobs) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []string
}

func (m *fakeMailer) SendVerificationEmail(_ context.Context, u user.User, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, u.Email+" "+url)
	return nil
}

type fakePublisher struct {
	mu      sync.Mutex
	err     error
	actions []string
}

func (p *fakePublisher) Publish(_ context.Context, action string, _ int64, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, action)
	return p.err
}

var errBoom = errors.New("boom")

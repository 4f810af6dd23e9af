package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-exchange-api/internal/application/ports"
	"file-exchange-api/internal/application/services"
	"file-exchange-api/internal/domain/download"
	domainFile "file-exchange-api/internal/domain/file"
	domainUser "file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/interface/api/rest/middleware"
)

var errNotUsed = errors.New("not used")

type FakeAuthService struct {
	LoginFunc          func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	ResolveSessionFunc func(ctx context.Context, sessionID string) (*domainUser.User, error)
	ResolveBearerFunc  func(ctx context.Context, authHeader string) (*domainUser.User, error)
	LogoutFunc         func(ctx context.Context, sessionID string) error
}

func (f *FakeAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if f.LoginFunc == nil {
		return nil, errNotUsed
	}
	return f.LoginFunc(ctx, username, password)
}

func (f *FakeAuthService) ResolveSession(ctx context.Context, sessionID string) (*domainUser.User, error) {
	if f.ResolveSessionFunc == nil {
		return nil, nil
	}
	return f.ResolveSessionFunc(ctx, sessionID)
}

func (f *FakeAuthService) ResolveBearer(ctx context.Context, authHeader string) (*domainUser.User, error) {
	if f.ResolveBearerFunc == nil {
		return nil, errNotUsed
	}
	return f.ResolveBearerFunc(ctx, authHeader)
}

func (f *FakeAuthService) Logout(ctx context.Context, sessionID string) error {
	if f.LogoutFunc == nil {
		return nil
	}
	return f.LogoutFunc(ctx, sessionID)
}

func (f *FakeAuthService) PruneSessions(context.Context) (int64, error) { return 0, nil }

type FakeUserService struct {
	SignupFunc        func(ctx context.Context, in ports.NewUser) (*ports.SignupResult, error)
	VerifyEmailFunc   func(ctx context.Context, token string) (*domainUser.User, error)
	CreateOpsUserFunc func(ctx context.Context, in ports.NewUser) (*domainUser.User, error)
}

func (f *FakeUserService) Signup(ctx context.Context, in ports.NewUser) (*ports.SignupResult, error) {
	if f.SignupFunc == nil {
		return nil, errNotUsed
	}
	return f.SignupFunc(ctx, in)
}

func (f *FakeUserService) VerifyEmail(ctx context.Context, token string) (*domainUser.User, error) {
	if f.VerifyEmailFunc == nil {
		return nil, errNotUsed
	}
	return f.VerifyEmailFunc(ctx, token)
}

func (f *FakeUserService) CreateOpsUser(ctx context.Context, in ports.NewUser) (*domainUser.User, error) {
	if f.CreateOpsUserFunc == nil {
		return nil, errNotUsed
	}
	return f.CreateOpsUserFunc(ctx, in)
}

type FakeFileService struct {
	ListFilesFunc  func(ctx context.Context) (domainFile.Files, error)
	FindFileFunc   func(ctx context.Context, id domainFile.ID) (*domainFile.File, error)
	SaveFileFunc   func(ctx context.Context, uploaderID domainUser.ID, name string, size int64, r io.Reader) (*domainFile.File, error)
	DeleteFileFunc func(ctx context.Context, actorID domainUser.ID, id domainFile.ID) error
	OpenFileFunc   func(ctx context.Context, f domainFile.File) (io.ReadCloser, error)
}

func (f *FakeFileService) ListFiles(ctx context.Context) (domainFile.Files, error) {
	if f.ListFilesFunc == nil {
		return nil, errNotUsed
	}
	return f.ListFilesFunc(ctx)
}

func (f *FakeFileService) FindFile(ctx context.Context, id domainFile.ID) (*domainFile.File, error) {
	if f.FindFileFunc == nil {
		return nil, errNotUsed
	}
	return f.FindFileFunc(ctx, id)
}

func (f *FakeFileService) SaveFile(ctx context.Context, uploaderID domainUser.ID, name string, size int64, r io.Reader) (*domainFile.File, error) {
	if f.SaveFileFunc == nil {
		return nil, errNotUsed
	}
	return f.SaveFileFunc(ctx, uploaderID, name, size, r)
}

func (f *FakeFileService) DeleteFile(ctx context.Context, actorID domainUser.ID, id domainFile.ID) error {
	if f.DeleteFileFunc == nil {
		return errNotUsed
	}
	return f.DeleteFileFunc(ctx, actorID, id)
}

func (f *FakeFileService) OpenFile(ctx context.Context, file domainFile.File) (io.ReadCloser, error) {
	if f.OpenFileFunc == nil {
		return nil, errNotUsed
	}
	return f.OpenFileFunc(ctx, file)
}

type FakeDownloadService struct {
	IssueLinkFunc func(ctx context.Context, userID domainUser.ID, fileID domainFile.ID) (*download.Token, error)
	RedeemFunc    func(ctx context.Context, token string, userID domainUser.ID) (*domainFile.File, error)
}

func (f *FakeDownloadService) IssueLink(ctx context.Context, userID domainUser.ID, fileID domainFile.ID) (*download.Token, error) {
	if f.IssueLinkFunc == nil {
		return nil, errNotUsed
	}
	return f.IssueLinkFunc(ctx, userID, fileID)
}

func (f *FakeDownloadService) Redeem(ctx context.Context, token string, userID domainUser.ID) (*domainFile.File, error) {
	if f.RedeemFunc == nil {
		return nil, errNotUsed
	}
	return f.RedeemFunc(ctx, token, userID)
}

func (f *FakeDownloadService) Prune(context.Context, time.Duration) (int64, error) { return 0, nil }

var (
	opsUser = &domainUser.User{
		ID: 1, Username: "admin", Email: "admin@example.com",
		Role: domainUser.RoleOperations, IsVerified: true,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	clientUser = &domainUser.User{
		ID: 2, Username: "alice", Email: "a@x.com",
		Role: domainUser.RoleClient, IsVerified: true,
		CreatedAt: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
	}
)

const (
	bearerOps    = "Bearer ops-token"
	bearerClient = "Bearer client-token"
	testCookie   = "session"
)

// stubAuth knows two bearer tokens and reports the real sentinel errors for
// everything else.
func stubAuth() *FakeAuthService {
	return &FakeAuthService{
		ResolveBearerFunc: func(_ context.Context, h string) (*domainUser.User, error) {
			switch {
			case h == bearerOps:
				return opsUser, nil
			case h == bearerClient:
				return clientUser, nil
			case h == "Bearer expired":
				return nil, services.ErrTokenExpired
			case !strings.HasPrefix(h, "Bearer "):
				return nil, services.ErrMissingToken
			default:
				return nil, services.ErrInvalidToken
			}
		},
	}
}

func testAuthn() gin.HandlerFunc {
	return middleware.Authenticate(stubAuth(), nopLogger, testCookie)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doReq(
	t *testing.T,
	r *gin.Engine,
	method, path string,
	body io.Reader,
	headers map[string]string,
	cookies ...*http.Cookie,
) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	if s, ok := v.(string); ok {
		return strings.NewReader(s)
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m), rr.Body.String())
	return m
}

func authHeader(h string) map[string]string {
	return map[string]string{"Authorization": h}
}

var nopLogger = zap.NewNop()

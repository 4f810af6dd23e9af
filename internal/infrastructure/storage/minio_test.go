package storage

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// offlineMinio never reaches a server; every call below fails before I/O.
func offlineMinio(t *testing.T) *Minio {
	t.Helper()
	client, err := minio.New("localhost:9", &minio.Options{Creds: credentials.NewStaticV4("key", "secret", "")})
	require.NoError(t, err)
	return &Minio{logger: zap.NewNop(), client: client, bucket: "uploads"}
}

func TestMinio_Locate(t *testing.T) {
	assert.Equal(t, "s3://uploads/abc.docx", offlineMinio(t).Locate("abc.docx"))
}

func TestMinio_RejectsBadKeys(t *testing.T) {
	m := offlineMinio(t)
	ctx := context.Background()

	for _, key := range []string{"", "..", "a/b.docx", `a\b.docx`} {
		_, err := m.Save(ctx, key, strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, ErrInvalidKey, key)

		_, err = m.Open(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)

		assert.ErrorIs(t, m.Delete(ctx, key), ErrInvalidKey, key)
	}
}

func TestIsNoSuchKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "code", err: minio.ErrorResponse{Code: "NoSuchKey"}, want: true},
		{name: "status", err: minio.ErrorResponse{StatusCode: http.StatusNotFound}, want: true},
		{name: "access denied", err: minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}},
		{name: "plain error", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNoSuchKey(tt.err))
		})
	}
}

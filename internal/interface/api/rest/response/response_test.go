package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-exchange-api/internal/apperr"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "validation", err: apperr.Validation("bad"), code: http.StatusBadRequest, message: "bad"},
		{name: "duplicate", err: apperr.Duplicate("Username already exists!"), code: http.StatusBadRequest, message: "Username already exists!"},
		{name: "unsupported type", err: apperr.New(apperr.KindUnsupportedFileType, "File type not allowed"), code: http.StatusBadRequest, message: "File type not allowed"},
		{name: "authentication", err: apperr.Authentication("Token is missing!"), code: http.StatusUnauthorized, message: "Token is missing!"},
		{name: "authorization", err: apperr.Authorization("Permission denied!"), code: http.StatusForbidden, message: "Permission denied!"},
		{name: "not found wrapped", err: fmt.Errorf("x: %w", apperr.NotFound("File not found!")), code: http.StatusNotFound, message: "File not found!"},
		{name: "storage hides cause", err: apperr.Storage(errors.New("disk full at /srv"), "Error saving file"), code: http.StatusInternalServerError, message: "Error saving file"},
		{name: "unknown hides cause", err: errors.New("pq: connection refused"), code: http.StatusInternalServerError, message: internalMessage},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)

			Error(c, zap.NewNop(), "op", tt.err)

			assert.Equal(t, tt.code, rr.Code)
			assert.True(t, c.IsAborted())
			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, map[string]any{"message": tt.message}, body)
		})
	}
}

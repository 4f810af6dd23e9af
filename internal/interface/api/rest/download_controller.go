package rest

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-exchange-api/internal/application/ports"
	"file-exchange-api/internal/application/services"
	domain "file-exchange-api/internal/domain/file"
	"file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/interface/api/rest/dto/file"
	"file-exchange-api/internal/interface/api/rest/middleware"
	"file-exchange-api/internal/interface/api/rest/response"
	"file-exchange-api/internal/interface/api/rest/validator"
)

type DownloadController struct {
	logger          *zap.Logger
	fileService     ports.FileService
	downloadService ports.DownloadService
	links           Links
}

func NewDownloadController(
	r *gin.Engine,
	logger *zap.Logger,
	fileService ports.FileService,
	downloadService ports.DownloadService,
	links Links,
	authn gin.HandlerFunc,
) *DownloadController {
	dc := &DownloadController{
		logger:          logger,
		fileService:     fileService,
		downloadService: downloadService,
		links:           links,
	}

	clientOnly := middleware.RequireRole(logger, user.RoleClient)

	r.GET(RouteDownloadLink, authn, clientOnly, dc.LinkHandler)
	r.GET(RouteDownload, authn, clientOnly, dc.DownloadHandler)

	return dc
}

func (dc *DownloadController) LinkHandler(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	id, ok := validator.ParseID(c.Param("file_id"))
	if !ok {
		response.Error(c, dc.logger, "LinkHandler()", services.ErrFileNotFound)
		return
	}

	t, err := dc.downloadService.IssueLink(c.Request.Context(), u.ID, domain.ID(id))
	if err != nil {
		response.Error(c, dc.logger, "IssueLink()", err)
		return
	}

	c.JSON(http.StatusOK, file.LinkResponse{
		DownloadLink: dc.links.Download(t.Token),
		Message:      "success",
	})
}

func (dc *DownloadController) DownloadHandler(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	f, err := dc.downloadService.Redeem(ctx, c.Param("token"), u.ID)
	if err != nil {
		response.Error(c, dc.logger, "Redeem()", err)
		return
	}

	rc, err := dc.fileService.OpenFile(ctx, *f)
	if err != nil {
		response.Error(c, dc.logger, "OpenFile()", err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, f.SizeBytes, f.ContentType(), rc, map[string]string{
		"Content-Disposition": contentDisposition(f.OriginalName),
	})
}

// contentDisposition sends an ASCII fallback name plus the exact name in
// RFC 5987 form.
func contentDisposition(name string) string {
	return fmt.Sprintf(
		`attachment; filename="%s"; filename*=UTF-8''%s`,
		services.SafeFileName(name),
		strings.ReplaceAll(url.QueryEscape(name), "+", "%20"),
	)
}

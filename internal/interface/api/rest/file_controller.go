package rest

import (
	"errors"
	"net/http"

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

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

type FileController struct {
	logger      *zap.Logger
	fileService ports.FileService
	maxUpload   int64
}

func NewFileController(
	r *gin.Engine,
	logger *zap.Logger,
	fileService ports.FileService,
	authn gin.HandlerFunc,
	maxUpload int64,
) *FileController {
	fc := &FileController{
		logger:      logger,
		fileService: fileService,
		maxUpload:   maxUpload,
	}

	opsOnly := middleware.RequireRole(logger, user.RoleOperations)
	clientOnly := middleware.RequireRole(logger, user.RoleClient)

	r.POST(RouteUpload, authn, opsOnly, fc.UploadHandler)
	r.GET(RouteFiles, authn, clientOnly, fc.ListHandler)
	r.GET(RouteFile, authn, fc.DetailsHandler)
	r.DELETE(RouteFile, authn, opsOnly, fc.DeleteHandler)

	return fc
}

func (fc *FileController) UploadHandler(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, fc.maxUpload+multipartOverhead)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Message(c, http.StatusRequestEntityTooLarge, "File too large!")
			return
		}
		response.Message(c, http.StatusBadRequest, "No file part in the request!")
		return
	}
	if fh.Filename == "" {
		response.Message(c, http.StatusBadRequest, "No file selected!")
		return
	}
	if fh.Size > fc.maxUpload {
		response.Message(c, http.StatusRequestEntityTooLarge, "File too large!")
		return
	}

	src, err := fh.Open()
	if err != nil {
		response.Error(c, fc.logger, "FormFile.Open()", err)
		return
	}
	defer src.Close()

	f, err := fc.fileService.SaveFile(c.Request.Context(), u.ID, fh.Filename, fh.Size, src)
	if err != nil {
		response.Error(c, fc.logger, "SaveFile()", err)
		return
	}

	c.JSON(http.StatusCreated, file.UploadResponse{
		Message: "File uploaded successfully!",
		File:    file.ToResponseFile(*f),
	})
}

func (fc *FileController) ListHandler(c *gin.Context) {
	files, err := fc.fileService.ListFiles(c.Request.Context())
	if err != nil {
		response.Error(c, fc.logger, "ListFiles()", err)
		return
	}

	c.JSON(http.StatusOK, file.ListResponse{Files: file.ToResponseFiles(files)})
}

func (fc *FileController) DetailsHandler(c *gin.Context) {
	id, ok := validator.ParseID(c.Param("file_id"))
	if !ok {
		response.Error(c, fc.logger, "DetailsHandler()", services.ErrFileNotFound)
		return
	}

	f, err := fc.fileService.FindFile(c.Request.Context(), domain.ID(id))
	if err != nil {
		response.Error(c, fc.logger, "FindFile()", err)
		return
	}

	c.JSON(http.StatusOK, file.DetailResponse{File: file.ToResponseFile(*f)})
}

func (fc *FileController) DeleteHandler(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	id, ok := validator.ParseID(c.Param("file_id"))
	if !ok {
		response.Error(c, fc.logger, "DeleteHandler()", services.ErrFileNotFound)
		return
	}

	if err := fc.fileService.DeleteFile(c.Request.Context(), u.ID, domain.ID(id)); err != nil {
		response.Error(c, fc.logger, "DeleteFile()", err)
		return
	}

	response.Message(c, http.StatusOK, "File deleted successfully!")
}

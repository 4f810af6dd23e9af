package rest

import (
	"net/url"
)

const (
	// api
	RouteApi   = "/api"
	RouteApiV1 = RouteApi + "/v1"

	// auth
	RouteSignup        = RouteApi + "/signup"
	RouteVerifyEmail   = RouteApi + "/verify-email/:token"
	RouteLogin         = RouteApi + "/login"
	RouteLogout        = RouteApi + "/logout"
	RouteCreateOpsUser = RouteApi + "/create-ops-user"
	RouteProfile       = RouteApi + "/user/profile"

	// files
	RouteUpload       = RouteApi + "/upload"
	RouteFiles        = RouteApi + "/files"
	RouteFile         = RouteFiles + "/:file_id"
	RouteDownloadLink = RouteApi + "/download-file/:file_id"
	RouteDownload     = RouteApi + "/download/:token"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)

// Links builds the absolute URLs handed out to users.
type Links struct {
	BaseURL string
}

func (l Links) VerifyEmail(token string) string {
	return l.BaseURL + RouteApi + "/verify-email/" + url.PathEscape(token)
}

func (l Links) Download(token string) string {
	return l.BaseURL + RouteApi + "/download/" + url.PathEscape(token)
}

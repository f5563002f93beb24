package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/pkg/apperror"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
	"github.com/oksasatya/go-blog-api/pkg/response"
	"github.com/oksasatya/go-blog-api/pkg/validation"
)

// writeError is the single place where service errors become HTTP responses.
// Internal failures are logged with their cause.
func writeError(c *gin.Context, logger *logrus.Logger, exposeCause bool, err error) {
	ae := apperror.From(err)
	if ae.Kind == apperror.KindInternal {
		helpers.LogError(logger, ae.Message, ae.Cause, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
	}
	response.Fail(c, ae, exposeCause)
}

func bindError(err error) error {
	if tooLarge(err) {
		return apperror.New(apperror.KindTooLarge, "request body exceeds the size limit")
	}
	return apperror.InvalidInput("invalid payload", validation.ToDetails(err))
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.InvalidInput("invalid "+name, map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}

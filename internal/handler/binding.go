package handler

import (
	"encoding/json"
	"errors"
	"io"

	"taskboard/internal/apperror"
	"taskboard/internal/service"
	"taskboard/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON decodes the request body into obj. Any failure is reported as a
// validation error so the error middleware renders it as a 400.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return bindError(err)
	}
	return nil
}

func bindError(err error) error {
	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperror.Validation("No request body")
	case errors.As(err, &verrs):
		return apperror.Validation("%s", validation.Message(err))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.Validation("Malformed JSON body")
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return apperror.Validation("Request body must be a JSON object")
		}
		return apperror.Validation("%s has the wrong type", typeErr.Field)
	default:
		return apperror.Validation("%s", err.Error())
	}
}

// listQuery splits the query string into filter values and paging.
func listQuery(c *gin.Context) (service.ListQuery, error) {
	page, limit, err := service.ParsePaging(c.Query("page"), c.Query("limit"))
	if err != nil {
		return service.ListQuery{}, err
	}
	filter := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if key == "page" || key == "limit" || len(values) == 0 {
			continue
		}
		filter[key] = values[0]
	}
	return service.ListQuery{Filter: filter, Page: page, Limit: limit}, nil
}

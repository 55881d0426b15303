package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"github.com/tonkonan/materrax/internal/service"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrRegistrationFieldsRequired, http.StatusBadRequest},
	{service.ErrPasswordTooShort, http.StatusBadRequest},
	{service.ErrPasswordTooLong, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrEmailTaken, http.StatusBadRequest},
	{service.ErrLoginFieldsRequired, http.StatusBadRequest},
	{service.ErrRequestFieldsRequired, http.StatusBadRequest},
	{service.ErrInvalidVolume, http.StatusBadRequest},
	{service.ErrOfferFieldsRequired, http.StatusBadRequest},
	{service.ErrInvalidOfferTerms, http.StatusBadRequest},
	{service.ErrValueOutOfRange, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrBuyerOnly, http.StatusForbidden},
	{service.ErrSupplierOnly, http.StatusForbidden},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrRequestNotFound, http.StatusNotFound},
}

// fieldTypeError turns a JSON type mismatch on a named body field into a
// service.FieldTypeError. It returns nil for any other decode failure.
func fieldTypeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" || typeErr.Type == nil {
		return nil
	}

	want := "a valid value"
	switch typeErr.Type.Kind() {
	case reflect.String:
		want = "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		want = "an integer"
	case reflect.Float32, reflect.Float64:
		want = "a number"
	}

	return &service.FieldTypeError{Field: typeErr.Field, Want: want}
}

// respondError writes the status and message for a known service error.
// Anything else is logged and answered with a 500 carrying fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var fieldErr *service.FieldTypeError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Error()})
		return
	}

	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.err.Error()})
			return
		}
	}

	logger.Error(fallback, "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

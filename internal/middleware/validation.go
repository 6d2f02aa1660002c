package middleware

import (
	"log/slog"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "skucheck/internal/errors"
)

// NewValidator returns a validator that reports fields by their JSON names
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ContentTypeValidator ensures requests with a body declare one of the
// allowed media types
func ContentTypeValidator(logger *slog.Logger, contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Content-Type")
			mediaType, _, err := mime.ParseMediaType(header)
			if err != nil {
				apierrors.WriteError(w, apierrors.NewWithDetails(
					http.StatusUnsupportedMediaType,
					apierrors.CodeUnsupportedMediaType,
					"Content-Type header is missing or malformed",
					map[string]interface{}{"allowed": contentTypes},
				))
				return
			}

			for _, allowed := range contentTypes {
				if strings.EqualFold(mediaType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.WarnContext(r.Context(), "unsupported content type",
				slog.String("content_type", mediaType),
				slog.String("path", r.URL.Path))
			apierrors.WriteError(w, apierrors.NewWithDetails(
				http.StatusUnsupportedMediaType,
				apierrors.CodeUnsupportedMediaType,
				"Unsupported content type",
				map[string]interface{}{
					"content_type": mediaType,
					"allowed":      contentTypes,
				},
			))
		})
	}
}

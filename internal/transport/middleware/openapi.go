package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/transport"
)

// OpenAPIValidator checks request parameters and bodies against the API
// document before they reach a handler. Paths in the document are relative
// to prefix. Requests for routes the document does not describe pass
// through.
type OpenAPIValidator struct {
	router routers.Router
	prefix string
	base   *transport.BaseHandler
}

func NewOpenAPIValidator(spec []byte, prefix string, base *transport.BaseHandler) (*OpenAPIValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	// match on paths only; the prefix is stripped before lookup
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return &OpenAPIValidator{router: router, prefix: prefix, base: base}, nil
}

func (v *OpenAPIValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probe := r.Clone(r.Context())
		probe.URL.Path = strings.TrimPrefix(r.URL.Path, v.prefix)
		if probe.URL.Path == "" {
			probe.URL.Path = "/"
		}

		route, params, err := v.router.FindRoute(probe)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    probe,
			PathParams: params,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				MultiError:         false,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.base.WriteAppError(w, requestError(err))
			return
		}

		// the validator consumed the body and left a fresh reader on probe
		r.Body = probe.Body
		next.ServeHTTP(w, r)
	})
}

func requestError(err error) *internal.AppError {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		field := ""
		if reqErr.Parameter != nil {
			field = reqErr.Parameter.Name
		}
		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) && len(schemaErr.JSONPointer()) > 0 {
			field = strings.Join(schemaErr.JSONPointer(), ".")
		}
		if field != "" {
			return internal.NewValidationFieldError(field, reqErr.Error(), internal.ErrCodeValidationFailed)
		}
	}
	return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
}

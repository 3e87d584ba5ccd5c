package http_test

import (
	"net/http"
	"regexp"
	"strings"
	"testing"

	httpapi "orders/internal/adapters/in/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var echoParam = regexp.MustCompile(`:(\w+)`)

func TestOpenAPIDocument_IsValid(t *testing.T) {
	doc, err := openapi3.NewLoader().LoadFromData(httpapi.OpenAPIDocument)
	require.NoError(t, err)

	require.NoError(t, doc.Validate(t.Context()))
}

func TestOpenAPIDocument_CoversRoutes(t *testing.T) {
	doc, err := openapi3.NewLoader().LoadFromData(httpapi.OpenAPIDocument)
	require.NoError(t, err)
	a := newAPI()

	for _, route := range a.echo.Routes() {
		if strings.HasPrefix(route.Path, "/swagger") {
			continue
		}
		path := echoParam.ReplaceAllString(route.Path, "{$1}")

		item := doc.Paths.Value(path)
		require.NotNil(t, item, "route %s %s is not documented", route.Method, path)
		assert.NotNil(t, item.GetOperation(route.Method), "route %s %s is not documented", route.Method, path)
	}
}

func TestSwaggerUI_ServesDocument(t *testing.T) {
	a := newAPI()

	rec := a.do(http.MethodGet, "/swagger/doc.json", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title": "Orders API"`)
}

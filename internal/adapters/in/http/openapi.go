package http

import (
	_ "embed"

	"github.com/swaggo/swag"
)

// OpenAPIDocument describes every route mounted by Server.Register.
//
//go:embed openapi.json
var OpenAPIDocument []byte

type apiDoc struct{}

func (apiDoc) ReadDoc() string {
	return string(OpenAPIDocument)
}

func init() {
	swag.Register(swag.Name, apiDoc{})
}

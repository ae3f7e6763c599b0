// Package api embeds the OpenAPI document of the REST contract.
package api

import _ "embed"

//go:embed openapi.yml
var Spec []byte

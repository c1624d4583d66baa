// Package api holds the HTTP contract. The document is validated at start-up,
// served at /openapi.yml and used to validate incoming requests.
package api

import _ "embed"

//go:embed openapi.yml
var OpenAPI []byte

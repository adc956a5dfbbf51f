// Package swagger embeds the OpenAPI document served under /swagger.
package swagger

import _ "embed"

// DocJSON is the OpenAPI 2.0 description of the HTTP API.
//
//go:embed user_deletion.swagger.json
var DocJSON []byte

// Package static embeds the assets served under /static: the site
// stylesheet and the OpenAPI document with its UI page.
package static

import "embed"

//go:embed css openapi.json openapi.html
var FS embed.FS

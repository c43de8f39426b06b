// Package swagger serves the Swagger UI for the API document published at
// /openapi.yml.
package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

const DocURL = "/openapi.yml"

func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(DocURL),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	)
}

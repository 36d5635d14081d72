package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"aetheria/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, ingestSvc service.IngestService, scanSvc service.ScanService, imageSvc service.ImageService) {
	// Embedded single-page viewer
	app.Get("/", IndexPage())

	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoints
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Report ingestion and image proxy
	app.Post("/ingest", IngestReport(ingestSvc))
	app.Get("/img", ProxyImage(imageSvc))

	// Persistence
	app.Post("/scans", SaveScan(scanSvc))
	app.Get("/customers", ListCustomers(scanSvc))
	app.Get("/customers/:id/scans/latest", LatestCustomerScan(scanSvc))
	app.Get("/customers/:id/scans/latest/archive", LatestScanArchive(scanSvc))
}

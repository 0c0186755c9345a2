package sender

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	TemplateResetPassword      = "reset_password.html"
	TemplateOrderCreated       = "order_created.html"
	TemplateOrderStatusUpdated = "order_status_updated.html"
	TemplateOrderCancelled     = "order_cancelled.html"
	TemplateWelcome            = "welcome.html"
)

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render executes the named embedded template.
func Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("template render failed: %w", err)
	}
	return buf.String(), nil
}

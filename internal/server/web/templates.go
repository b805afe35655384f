package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Имена страниц
const (
	pageTodos    = "view_todos.html"
	pageTodoForm = "add_todo.html"
	pageRegister = "register.html"
	pageLogin    = "login.html"
)

// pageData данные для рендера страницы
type pageData struct {
	User      *models.User
	Form      url.Values
	Errors    map[string]string
	Title     string
	Action    string
	CSRFToken string
	Flashes   []session.Flash
	Todos     []*models.Task
}

// parseTemplates собирает каждую страницу вместе с общим layout
func parseTemplates() (map[string]*template.Template, error) {
	pages := []string{pageTodos, pageTodoForm, pageRegister, pageLogin}
	templates := make(map[string]*template.Template, len(pages))

	for _, page := range pages {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return templates, nil
}

// render выполняет шаблон в буфер, чтобы ошибка не оставила полуответ
func (h *Handler) render(w http.ResponseWriter, page string, data pageData) error {
	tmpl, ok := h.templates[page]
	if !ok {
		return fmt.Errorf("unknown page: %s", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}

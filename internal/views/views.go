package views

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/datatypes"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	studentColor = "#4CAF50"
	teacherColor = "#2196F3"
)

// Load parses every screen template together with the shared layout.
func Load() (*template.Template, error) {
	return template.New("screens").Funcs(Funcs()).ParseFS(templateFS, "templates/*.tmpl")
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"date":       FormatDate,
		"datetime":   FormatDateTime,
		"badge":      RoleBadge,
		"badgeColor": BadgeColor,
	}
}

func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format("2006-01-02")
}

func FormatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// RoleBadge title-cases the two known roles, so "STUDENT" reads "Student".
// Any other role is shown as stored.
func RoleBadge(role string) string {
	trimmed := strings.TrimSpace(role)

	if !strings.EqualFold(trimmed, "student") && !strings.EqualFold(trimmed, "teacher") {
		return role
	}

	return cases.Title(language.English).String(strings.ToLower(trimmed))
}

func BadgeColor(role string) string {
	if strings.EqualFold(strings.TrimSpace(role), "student") {
		return studentColor
	}
	return teacherColor
}

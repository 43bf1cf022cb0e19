package main

import (
	"html/template"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/ybulut/liblend/internal/data"
	"github.com/ybulut/liblend/ui"
)

type templateData struct {
	FlashInfo       string
	FlashError      string
	DisplayNav      bool
	Form            any
	IsAuthenticated bool
	User            *data.User

	Books          []*data.Book
	AvailableBooks []*data.Book
	Members        []*data.Member
	Loans          []*data.LoanDetail

	TotalBooks   int
	TotalMembers int
	ActiveLoans  int
	OverdueLoans int
}

func humanDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

var functions = template.FuncMap{
	"humanDate": humanDate,
}

func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(ui.Files, "html/pages/*.html")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		patterns := []string{
			"html/base.html",
			"html/partials/*.html",
			page,
		}

		ts, err := template.New(name).Funcs(functions).ParseFS(ui.Files, patterns...)
		if err != nil {
			return nil, err
		}

		cache[name] = ts
	}

	return cache, nil
}

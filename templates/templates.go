// Package templates embeds the HTML pages and builds the gin renderer serving them.
package templates

import (
	"embed"
	"html/template"
	"time"

	"github.com/gin-contrib/multitemplate"
)

//go:embed *.html
var files embed.FS

// Pages lists every renderable page; each is parsed together with the shared layout.
var Pages = []string{"index", "room", "experience", "goods", "search", "detail", "login", "admin", "error"}

var kst = time.FixedZone("KST", 9*60*60)

// Funcs are available to every page.
var Funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.In(kst).Format("2006-01-02 15:04")
	},
	"upload": func(ref string) string {
		return "/uploads/" + ref
	},
	"safe": func(s string) template.HTML {
		// descriptions are sanitized before they are stored
		return template.HTML(s)
	},
}

// NewRenderer parses the layout with each page and registers the result under the page name.
func NewRenderer() (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()
	for _, page := range Pages {
		t, err := template.New(page).Funcs(Funcs).ParseFS(files, "base.html", page+".html")
		if err != nil {
			return nil, err
		}
		r.Add(page, t.Lookup("base"))
	}
	return r, nil
}

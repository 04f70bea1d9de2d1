package templates

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEveryPageParses(t *testing.T) {
	for _, page := range Pages {
		tmpl, err := template.New(page).Funcs(Funcs).ParseFS(files, "base.html", page+".html")
		require.NoError(t, err, page)
		require.NotNil(t, tmpl.Lookup("base"), page)
		require.NotNil(t, tmpl.Lookup("content"), page)
	}

	_, err := NewRenderer()
	require.NoError(t, err)
}

func TestErrorPageRenders(t *testing.T) {
	tmpl, err := template.New("error").Funcs(Funcs).ParseFS(files, "base.html", "error.html")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "base", map[string]any{
		"Status":  404,
		"Message": "<missing>",
		"Rooms":   []int{1, 2},
		"Flashes": []string{"notice"},
	}))
	out := buf.String()
	require.Contains(t, out, "<title>404</title>")
	require.Contains(t, out, "&lt;missing&gt;")
	require.Contains(t, out, `href="/room/2"`)
	require.Contains(t, out, "notice")
}

func TestFuncs(t *testing.T) {
	date := Funcs["date"].(func(time.Time) string)
	require.Equal(t, "2026-02-13 01:30", date(time.Date(2026, 2, 12, 16, 30, 0, 0, time.UTC)))

	upload := Funcs["upload"].(func(string) string)
	require.Equal(t, "/uploads/thumbs/a.jpg", upload("thumbs/a.jpg"))
}

package renderer

import (
	"github.com/unrolled/render"
)

// New returns the JSON renderer shared by the API handlers.
func New(development bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    development,
		IsDevelopment: development,
		UnEscapeHTML:  true,
		Charset:       "UTF-8",
	})
}

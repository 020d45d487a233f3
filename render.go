package folio

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

var renderBuffers = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// Render writes a component as a 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus renders cmp into a buffer before writing anything, so a
// component that fails halfway leaves the response uncommitted and the
// error handler can still send its own page.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	buf := renderBuffers.Get().(*bytes.Buffer)
	buf.Reset()
	defer renderBuffers.Put(buf)

	if err := cmp.Render(c.Request().Context(), buf); err != nil {
		return fmt.Errorf("folio: render: %w", err)
	}
	return c.HTMLBlob(code, buf.Bytes())
}

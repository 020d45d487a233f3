package folio

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestRenderStatusWritesHTML(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	cmp := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>ok</p>")
		return err
	})
	require.NoError(t, RenderStatus(c, http.StatusTeapot, cmp))
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	require.Equal(t, "<p>ok</p>", rec.Body.String())
}

func TestRenderStatusFailureLeavesResponseUncommitted(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	boom := errors.New("boom")
	cmp := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		io.WriteString(w, "<p>half")
		return boom
	})
	err := Render(c, cmp)
	require.ErrorIs(t, err, boom)
	require.False(t, c.Response().Committed)
	require.Empty(t, rec.Body.String())
}

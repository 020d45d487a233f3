package folio

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/contact"
	"github.com/eringen/folio/views"
)

const (
	contactStateKey = "contact"
	// CopyEvent is the htmx event folio.js listens for to write the
	// clipboard.
	CopyEvent = "folio:copy"
)

// hxClipboard asks the browser to copy text by triggering CopyEvent on the
// htmx response. The browser's answer never comes back to the server.
type hxClipboard struct {
	header http.Header
}

func (h hxClipboard) Copy(text string) {
	b, err := json.Marshal(map[string]map[string]string{CopyEvent: {"text": text}})
	if err != nil {
		return
	}
	h.header.Set("HX-Trigger", string(b))
}

// visitorReveal restores the visitor's reveal state for read-only
// rendering. A missing or unreadable session is treated as hidden.
func (a *App) visitorReveal(c echo.Context) *contact.Reveal {
	state := contact.Hidden
	if sess, err := session.Get(sessionName, c); err == nil {
		state = contact.ParseState(sess.Values[contactStateKey])
	}
	return contact.Restore(state, a.Config.Email, nil)
}

// contactView keeps the address out of the markup until it is revealed.
func (a *App) contactView(c echo.Context, r *contact.Reveal) views.ContactView {
	cv := views.ContactView{State: r.State(), CSRFToken: CsrfToken(c)}
	if r.State().IsRevealed() {
		cv.Email = r.Email()
	}
	return cv
}

func (a *App) handleContactToggle(c echo.Context) error {
	return a.updateContact(c, func(r *contact.Reveal) {
		r.Toggle()
	})
}

func (a *App) handleContactCopy(c echo.Context) error {
	return a.updateContact(c, func(r *contact.Reveal) {
		if !r.CopyEmail() {
			c.Logger().Debugf("contact: copy ignored while hidden")
		}
	})
}

// updateContact applies fn to the visitor's state and persists it. htmx
// requests get the re-rendered footer; plain form posts are sent back to
// the page they came from.
func (a *App) updateContact(c echo.Context, fn func(r *contact.Reveal)) error {
	if !a.contactLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests)
	}

	sess, err := session.Get(sessionName, c)
	if sess == nil {
		return err
	}
	// A session that fails to decode comes back empty and is overwritten.
	if err != nil {
		c.Logger().Debugf("contact: discarding unreadable session: %v", err)
	}

	r := contact.Restore(contact.ParseState(sess.Values[contactStateKey]), a.Config.Email, hxClipboard{c.Response().Header()})
	fn(r)

	sess.Values[contactStateKey] = int(r.State())
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}

	if isHTMX(c) {
		return Render(c, views.Footer(a.Config.View(), a.contactView(c, r)))
	}
	return c.Redirect(http.StatusSeeOther, backURL(c))
}

// backURL returns the same-site page the request was posted from, or the
// home page.
func backURL(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Host != c.Request().Host || ref.Path == "" || ref.Path[0] != '/' {
		return "/#contact"
	}
	return ref.RequestURI() + "#contact"
}

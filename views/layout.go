package views

import (
	"encoding/json"

	"github.com/a-h/templ"
)

// Routes the footer posts to.
const (
	ContactToggleURL = "/contact/toggle"
	ContactCopyURL   = "/contact/copy"
)

// CopiedMessage confirms a copy request.
const CopiedMessage = "Copied to clipboard!"

const (
	iconMail    = `<svg viewBox="0 0 24 24" width="30" height="30" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true"><path d="M4 4h16c1.1 0 2 .9 2 2v12c0 1.1-.9 2-2 2H4c-1.1 0-2-.9-2-2V6c0-1.1.9-2 2-2z"/><polyline points="22,6 12,13 2,6"/></svg>`
	iconGitHub  = `<svg viewBox="0 0 24 24" width="30" height="30" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true"><path d="M9 19c-5 1.5-5-2.5-7-3m14 6v-3.87a3.37 3.37 0 0 0-.94-2.61c3.14-.35 6.44-1.54 6.44-7A5.44 5.44 0 0 0 20 4.77 5.07 5.07 0 0 0 19.91 1S18.73.65 16 2.48a13.38 13.38 0 0 0-7 0C6.27.65 5.09 1 5.09 1A5.07 5.07 0 0 0 5 4.77a5.44 5.44 0 0 0-1.5 3.78c0 5.42 3.3 6.61 6.44 7A3.37 3.37 0 0 0 9 18.13V22"/></svg>`
	iconTwitter = `<svg viewBox="0 0 24 24" width="30" height="30" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true"><path d="M23 3a10.9 10.9 0 0 1-3.14 1.53 4.48 4.48 0 0 0-7.86 3v1A10.66 10.66 0 0 1 3 4s-4 9 5 13a11.64 11.64 0 0 1-7 2c9 5 20 0 20-11.5a4.5 4.5 0 0 0-.08-.83A7.72 7.72 0 0 0 23 3z"/></svg>`
)

// Layout is the page shell: head, header, main content and footer.
func Layout(cfg SiteConfig, meta PageMeta, cv ContactView, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en">`)
		h.render(Head(cfg, meta))
		h.raw(`<body hx-boost="true"`)
		h.attr("hx-headers", csrfHeaders(cv.CSRFToken))
		h.raw(`>`)
		h.render(Header(cfg.Name))
		h.raw(`<div class="content"><main>`)
		h.render(body)
		h.raw(`</main></div>`)
		h.render(Footer(cfg, cv))
		h.raw(`</body></html>`)
	})
}

func csrfHeaders(token string) string {
	b, err := json.Marshal(map[string]string{"X-CSRF-Token": token})
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Head renders document metadata for a page.
func Head(cfg SiteConfig, meta PageMeta) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(PageTitle(cfg, meta))
		h.raw(`</title>`)
		description := meta.Description
		if description == "" {
			description = cfg.Description
		}
		if description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", description)
			h.raw(`>`)
		}
		if kw := JoinKeywords(meta.Keywords); kw != "" {
			h.raw(`<meta name="keywords"`)
			h.attr("content", kw)
			h.raw(`>`)
		}
		if cfg.Author != "" {
			h.raw(`<meta name="author"`)
			h.attr("content", cfg.Author)
			h.raw(`>`)
		}
		if meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.href(meta.URL)
			h.raw(`><meta property="og:url"`)
			h.attr("content", meta.URL)
			h.raw(`>`)
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", PageTitle(cfg, meta))
		h.raw(`>`)
		if meta.OGType != "" {
			h.raw(`<meta property="og:type"`)
			h.attr("content", meta.OGType)
			h.raw(`>`)
		}
		h.raw(`<link rel="icon" href="/favicon.svg" type="image/svg+xml">`)
		h.raw(`<link rel="stylesheet" href="/public/folio.css">`)
		if meta.JSONLD != "" {
			// json.Marshal escapes <, > and & so the payload cannot close the tag.
			h.raw(`<script type="application/ld+json">`, meta.JSONLD, `</script>`)
		}
		if cfg.HTMXSrc != "" {
			h.raw(`<script defer`)
			h.attr("src", cfg.HTMXSrc)
			h.raw(`></script>`)
		}
		h.raw(`<script defer src="/public/folio.js"></script></head>`)
	})
}

// Header is the site-wide title bar.
func Header(siteTitle string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<header class="site-header"><div class="site-header-inner"><a class="site-title" href="/">`)
		h.text(siteTitle)
		h.raw(`</a></div></header>`)
	})
}

// Footer renders the social icons and the email interaction. It is also the
// fragment swapped in by the contact endpoints.
func Footer(cfg SiteConfig, cv ContactView) templ.Component {
	return component(func(h *htmlWriter) {
		revealed := cv.State.IsRevealed()
		h.raw(`<footer id="contact" class="site-footer"`)
		h.attr("data-state", cv.State.String())
		h.raw(`><div class="footer-icons">`)
		h.render(contactForm(ContactToggleURL, cv.CSRFToken, func(h *htmlWriter) {
			h.raw(`<button type="submit" class="icon envelope" aria-controls="contact-email"`)
			if revealed {
				h.raw(` aria-expanded="true" aria-label="Hide email">`)
			} else {
				h.raw(` aria-expanded="false" aria-label="Show email">`)
			}
			h.raw(iconMail, `</button>`)
		}))
		if cfg.GitHub != "" {
			h.raw(`<a class="icon" rel="me noopener" aria-label="GitHub"`)
			h.href(cfg.GitHub)
			h.raw(`>`, iconGitHub, `</a>`)
		}
		if cfg.Twitter != "" {
			h.raw(`<a class="icon" rel="me noopener" aria-label="Twitter"`)
			h.href(cfg.Twitter)
			h.raw(`>`, iconTwitter, `</a>`)
		}
		h.raw(`</div>`)
		if revealed {
			h.render(contactForm(ContactCopyURL, cv.CSRFToken, func(h *htmlWriter) {
				h.raw(`<button type="submit" id="contact-email" class="email" title="Copy to clipboard"`)
				h.attr("data-copy", cv.Email)
				h.raw(`>`)
				h.text(cv.Email)
				h.raw(`</button>`)
			}))
		}
		if revealed && cv.State.WasCopied() {
			h.raw(`<div class="email-copied" role="status">`)
			h.text(CopiedMessage)
			h.raw(`</div>`)
		}
		h.raw(`</footer>`)
	})
}

// contactForm posts to action with htmx when available and as a plain form
// otherwise.
func contactForm(action, csrfToken string, inner func(h *htmlWriter)) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<form method="post"`)
		h.attr("action", action)
		h.attr("hx-post", action)
		h.raw(` hx-target="#contact" hx-swap="outerHTML" hx-push-url="false"><input type="hidden" name="_csrf"`)
		h.attr("value", csrfToken)
		h.raw(`>`)
		inner(h)
		h.raw(`</form>`)
	})
}

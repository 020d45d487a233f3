package views

import "github.com/eringen/folio/contact"

// SiteConfig holds the site-wide settings templates read. It is built once
// at startup so nothing is hardcoded in markup.
type SiteConfig struct {
	Name        string // site title, shown in the header and bio
	URL         string // canonical base URL
	Description string
	Author      string
	Subtitle    string // line under the bio title
	GitHub      string // profile URL, omitted when empty
	Twitter     string // profile URL, omitted when empty
	HTMXSrc     string // htmx script URL
}

// PageMeta carries per-page SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	Keywords    []string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}

// ContactView is what the footer needs to render the email interaction.
// Email is only set while the state is revealed.
type ContactView struct {
	State     contact.State
	Email     string
	CSRFToken string
}

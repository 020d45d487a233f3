package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
)

// ReadingTimeSeparator sits between the date and the reading time in a
// post summary.
const ReadingTimeSeparator = " - "

// HomePage is the landing page: the bio with every post below it.
func HomePage(cfg SiteConfig, snap content.Snapshot) templ.Component {
	return Bio(snap.Site.Title, cfg.Subtitle, snap.Posts)
}

// Bio renders the site title as a home link, the subtitle and the post list.
func Bio(siteTitle, subtitle string, posts []content.Post) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="bio"><h1 class="bio-title"><a href="/">`)
		h.text(siteTitle)
		h.raw(`</a></h1><p class="bio-subtitle">`)
		h.text(subtitle)
		h.raw(`</p>`)
		h.render(PostList(posts))
		h.raw(`</section>`)
	})
}

// PostList renders one summary per post in the order given.
func PostList(posts []content.Post) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="post-list">`)
		for _, p := range posts {
			h.render(PostSummary(p))
		}
		h.raw(`</div>`)
	})
}

// PostSummary is a single linked block in the post list.
func PostSummary(p content.Post) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<article class="post-summary"`)
		h.attr("data-key", p.ID)
		h.raw(`><a class="post-link"`)
		h.href(p.Path)
		h.raw(`><h3 class="post-title">`)
		h.text(p.Title)
		h.raw(`</h3>`)
		h.render(postMeta(p))
		h.raw(`<p class="post-excerpt">`)
		h.text(p.Excerpt)
		h.raw(`</p></a></article>`)
	})
}

func postMeta(p content.Post) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<small class="post-meta">`)
		if p.DateText != "" {
			h.raw(`<time class="post-date"`)
			if !p.Date.IsZero() {
				h.attr("datetime", p.Date.Format("2006-01-02"))
			}
			h.raw(`>`)
			h.text(p.DateText)
			h.raw(`</time><span class="post-sep">`)
			h.text(ReadingTimeSeparator)
			h.raw(`</span>`)
		}
		h.raw(`<span class="post-reading-time">`)
		h.text(p.ReadingTime.Text)
		h.raw(`</span></small>`)
	})
}

package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
)

// PostPage renders a single post with its markdown body.
func PostPage(p content.Post) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<article class="post"`)
		h.attr("data-key", p.ID)
		h.raw(`><header class="post-header"><h1 class="post-title">`)
		h.text(p.Title)
		h.raw(`</h1>`)
		h.render(postMeta(p))
		h.raw(`</header><div class="post-body">`)
		h.render(markdown.Markdown(p.Body))
		h.raw(`</div><nav class="post-nav"><a href="/">&larr; All posts</a></nav></article>`)
	})
}

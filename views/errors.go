package views

import "github.com/a-h/templ"

// NotFound is the body of the 404 page.
func NotFound() templ.Component {
	return errorPage("404", "Page not found", "The page you are looking for does not exist.")
}

// ServerError is the body of the 500 page.
func ServerError() templ.Component {
	return errorPage("500", "Something went wrong", "Please try again in a moment.")
}

// TooManyRequests is the body of the 429 page.
func TooManyRequests() templ.Component {
	return errorPage("429", "Slow down", "Too many requests. Please wait a minute and try again.")
}

func errorPage(code, title, message string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="error-page"><p class="error-code">`)
		h.text(code)
		h.raw(`</p><h1>`)
		h.text(title)
		h.raw(`</h1><p>`)
		h.text(message)
		h.raw(`</p><a href="/">Back home</a></section>`)
	})
}

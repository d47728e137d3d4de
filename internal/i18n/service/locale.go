package service

import (
	"net/http"

	"golang.org/x/text/language"
)

// LocaleQueryParam overrides Accept-Language when present.
const LocaleQueryParam = "lang"

// LocaleResolver picks the response locale of a request.
type LocaleResolver struct {
	supported []language.Tag
	matcher   language.Matcher
}

// NewLocaleResolver creates a resolver over supported. The first tag is the
// default when the request expresses no usable preference.
func NewLocaleResolver(supported []language.Tag) *LocaleResolver {
	return &LocaleResolver{
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}
}

// Resolve matches the lang query parameter and then the Accept-Language
// header against the supported locales.
func (r *LocaleResolver) Resolve(req *http.Request) language.Tag {
	_, index := language.MatchStrings(
		r.matcher,
		req.URL.Query().Get(LocaleQueryParam),
		req.Header.Get("Accept-Language"),
	)
	return r.supported[index]
}

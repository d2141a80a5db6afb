// Package classify assigns a coarse content type to a mention from its URL
// and snippet text. Rules are fixed and the result is deterministic.
package classify

import (
	"net/url"
	"regexp"
	"strings"

	"BrandMonitor/internal/domain"
)

type rule struct {
	ctype domain.ContentType
	path  *regexp.Regexp
	host  *regexp.Regexp
	text  *regexp.Regexp
}

// Ordered by priority; the first category matched wins.
var rules = []rule{
	{
		ctype: domain.TypeNews,
		path:  regexp.MustCompile(`news|press|article|story`),
		host:  regexp.MustCompile(`news|press|times|post|journal|herald|tribune`),
		text:  regexp.MustCompile(`breaking|news|headline|press release|reported`),
	},
	{
		ctype: domain.TypeBlog,
		path:  regexp.MustCompile(`blog|post|journal`),
		host:  regexp.MustCompile(`blog|medium|wordpress|blogger|substack`),
		text:  regexp.MustCompile(`blog|posted by`),
	},
	{
		ctype: domain.TypeForum,
		path:  regexp.MustCompile(`forum|discuss|thread|community`),
		host:  regexp.MustCompile(`reddit|quora|stackoverflow|forum`),
		text:  regexp.MustCompile(`forum|thread|discussion|replies`),
	},
	{
		ctype: domain.TypeSocial,
		path:  regexp.MustCompile(`twitter|facebook|linkedin|instagram|tiktok`),
		host:  regexp.MustCompile(`twitter|x\.com|facebook|linkedin|instagram|tiktok`),
		text:  regexp.MustCompile(`tweet|retweet|shared on|follower`),
	},
}

// Type classifies a mention, defaulting to article when nothing matches.
func Type(rawURL, snippet string) domain.ContentType {
	var host, path string
	if u, err := url.Parse(rawURL); err == nil {
		host = strings.ToLower(u.Hostname())
		path = strings.ToLower(u.Path)
	}
	text := strings.ToLower(snippet)

	for _, r := range rules {
		if host != "" && r.host.MatchString(host) {
			return r.ctype
		}
		if path != "" && r.path.MatchString(path) {
			return r.ctype
		}
		if text != "" && r.text.MatchString(text) {
			return r.ctype
		}
	}

	return domain.TypeArticle
}

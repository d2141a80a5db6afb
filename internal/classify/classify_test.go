package classify

import (
	"testing"

	"BrandMonitor/internal/domain"
)

func TestType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		url     string
		snippet string
		want    domain.ContentType
	}{
		{"news host", "https://news.example.org/story", "", domain.TypeNews},
		{"news path", "https://acme.io/press/launch", "", domain.TypeNews},
		{"news from snippet", "https://random.io/update", "breaking news today", domain.TypeNews},
		{"blog host", "https://medium.com/@someone/essay", "", domain.TypeBlog},
		{"blog path", "https://acme.io/blog/entry", "", domain.TypeBlog},
		{"forum host", "https://reddit.com/r/acme/comments/1", "", domain.TypeForum},
		{"forum path", "https://acme.io/community/help", "", domain.TypeForum},
		{"social host", "https://twitter.com/acme/status/1", "", domain.TypeSocial},
		{"default", "https://random.io/x", "", domain.TypeArticle},
		{"unparseable url", "::::", "", domain.TypeArticle},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Type(tc.url, tc.snippet); got != tc.want {
				t.Fatalf("Type(%q, %q) = %s, want %s", tc.url, tc.snippet, got, tc.want)
			}
		})
	}
}

func TestTypeIsDeterministic(t *testing.T) {
	t.Parallel()

	first := Type("https://acme.io/blog/entry", "great launch")
	for i := 0; i < 10; i++ {
		if got := Type("https://acme.io/blog/entry", "great launch"); got != first {
			t.Fatalf("classification changed between calls: %s vs %s", first, got)
		}
	}
}

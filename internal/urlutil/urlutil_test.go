package urlutil

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"absolute kept", "https://site.com/page", "https://site.com/page"},
		{"trimmed", "  https://site.com/page \n", "https://site.com/page"},
		{"bare domain gets scheme", "site.com", "https://site.com"},
		{"subdomain bare", "blog.site.co.uk", "https://blog.site.co.uk"},
		{"scheme-relative", "//site.com/page", "https://site.com/page"},
		{"empty", "", ""},
		{"garbage", "not a url", ""},
		{"bare word", "mention", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalizeEquivalence(t *testing.T) {
	t.Parallel()

	variants := []string{
		"https://Example.org/Path/",
		"https://example.org/Path",
		"http://example.org/Path/",
		"https://example.org:443/Path?utm=1#frag",
	}

	want := "example.org/Path"
	for _, v := range variants {
		if got := Canonicalize(v); got != want {
			t.Fatalf("Canonicalize(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestCanonicalizeRoot(t *testing.T) {
	t.Parallel()

	if got := Canonicalize("https://site.com"); got != "site.com/" {
		t.Fatalf("expected site.com/, got %q", got)
	}
	if got := Canonicalize("/relative/only"); got != "" {
		t.Fatalf("expected empty key for hostless url, got %q", got)
	}
}

func TestAcceptable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want bool
	}{
		{"https://realsite.org/anything", true},
		{"http://realsite.org", true},
		{"ftp://site.com/file", false},
		{"https://example.com/anything", false},
		{"https://sub.test.com/page", false},
		{"http://localhost/x", false},
		{"http://127.0.0.1/x", false},
		{"http://10.0.0.5/x", false},
		{"http://172.20.1.1/x", false},
		{"http://192.168.1.1/x", false},
		{"http://8.8.8.8/x", true},
		{"/no/host", false},
	}

	for _, tc := range cases {
		if got := Acceptable(tc.url); got != tc.want {
			t.Fatalf("Acceptable(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

package collector

import "testing"

func TestParseStars(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"987", 987},
		{"1,234", 1234},
		{"12.3k", 12300},
		{"1.5K", 1500},
		{" 42 ", 42},
		{"abc", 0},
	}
	for _, c := range cases {
		if got := parseStars(c.in); got != c.want {
			t.Fatalf("parseStars(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseTodayStars(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"123 stars today", 123},
		{"1,024 stars today", 1024},
		{"stars today", 0},
	}
	for _, c := range cases {
		if got := parseTodayStars(c.in); got != c.want {
			t.Fatalf("parseTodayStars(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestResolveSources(t *testing.T) {
	for _, id := range []string{"github", "baidu", "weibo", "hackernews"} {
		f, err := Resolve(id)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", id, err)
		}
		if f.Name() != id {
			t.Fatalf("Resolve(%q).Name() = %q", id, f.Name())
		}
	}

	f, err := Resolve("rss:https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Resolve rss: %v", err)
	}
	if f == nil {
		t.Fatalf("rss fetcher is nil")
	}

	if _, err := Resolve("unknown-source"); err == nil {
		t.Fatalf("unknown source should be an error")
	}
}

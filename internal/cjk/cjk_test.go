package cjk

import "testing"

func TestIs(t *testing.T) {
	for _, r := range "中文汉字" {
		if !Is(r) {
			t.Fatalf("Is(%q) = false, want true", r)
		}
	}
	for _, r := range "abc123ー한" {
		if Is(r) {
			t.Fatalf("Is(%q) = true, want false", r)
		}
	}
}

func TestCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello", 0},
		{"中文 mixed 内容", 4},
		{"全是汉字", 4},
	}
	for _, c := range cases {
		if got := Count(c.in); got != c.want {
			t.Fatalf("Count(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

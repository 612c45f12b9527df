package pagination

import (
	"net/url"
	"testing"
)

func TestParseQueryDefaults(t *testing.T) {
	t.Parallel()

	params, err := ParseQuery(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Limit != 0 || params.Offset != 0 {
		t.Fatalf("expected zero params, got %+v", params)
	}
}

func TestParseQueryCapsLimit(t *testing.T) {
	t.Parallel()

	params, err := ParseQuery(url.Values{"limit": {"500"}, "offset": {"10"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", MaxLimit, params.Limit)
	}
	if params.Offset != 10 {
		t.Fatalf("expected offset 10, got %d", params.Offset)
	}
}

func TestParseQueryRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := []url.Values{
		{"limit": {"abc"}},
		{"limit": {"0"}},
		{"limit": {"-1"}},
		{"offset": {"abc"}},
		{"offset": {"-5"}},
	}
	for _, values := range cases {
		if _, err := ParseQuery(values); err == nil {
			t.Fatalf("expected error for %v", values)
		}
	}
}

func TestWindow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		total      int
		params     Params
		start, end int
	}{
		{"no params returns everything", 14, Params{}, 0, 14},
		{"limit clips the end", 14, Params{Limit: 5}, 0, 5},
		{"offset moves the start", 14, Params{Limit: 5, Offset: 10}, 10, 14},
		{"offset past the end is empty", 14, Params{Offset: 20}, 14, 14},
		{"offset without limit", 14, Params{Offset: 3}, 3, 14},
	}
	for _, tc := range cases {
		start, end := Window(tc.total, tc.params)
		if start != tc.start || end != tc.end {
			t.Fatalf("%s: got [%d:%d] want [%d:%d]", tc.name, start, end, tc.start, tc.end)
		}
	}
}

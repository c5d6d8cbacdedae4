package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/tbourn/review-outreach/internal/domain"
)

func TestBusinessProfile(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedUser(t, "u1", "Shop")

	w := e.do(t, http.MethodGet, "/business-profile", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get -> %d", w.Code)
	}
	if got := decode[domain.User](t, w); got.BusinessName != "Shop" || got.BusinessType != domain.DefaultBusinessType {
		t.Fatalf("unexpected profile: %+v", got)
	}

	w = e.do(t, http.MethodPut, "/business-profile", "u1", map[string]any{
		"name":           "Corner Cafe",
		"type":           "coffee shop",
		"website":        "https://corner.example",
		"googleBusiness": "https://g.page/corner",
		"business_hours": map[string]any{"mon": "9-17"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("put -> %d %s", w.Code, w.Body.String())
	}
	got := decode[domain.User](t, w)
	if got.BusinessName != "Corner Cafe" || got.BusinessType != "Coffee Shop" || got.GoogleBusiness != "https://g.page/corner" {
		t.Fatalf("unexpected update: %+v", got)
	}
	if got.BusinessHours != `{"mon":"9-17"}` {
		t.Fatalf("business_hours = %q", got.BusinessHours)
	}

	w = e.do(t, http.MethodPut, "/business-profile", "u1", map[string]any{"name": "X", "website": "nope"})
	er := decode[ErrorResponse](t, w)
	if w.Code != http.StatusBadRequest || er.Details["name"] == "" || er.Details["website"] != "Enter a valid URL." {
		t.Fatalf("invalid -> %d %+v", w.Code, er)
	}

	if w = e.do(t, http.MethodGet, "/business-profile", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous -> %d", w.Code)
	}
}

func TestHoursText(t *testing.T) {
	cases := []struct {
		raw  string
		want *string
	}{
		{"", nil},
		{"null", nil},
		{`"Mon-Fri 9-5"`, strp("Mon-Fri 9-5")},
		{`{ "mon" : "9-5" }`, strp(`{"mon":"9-5"}`)},
	}
	for _, tc := range cases {
		got := hoursText(json.RawMessage(tc.raw))
		if (got == nil) != (tc.want == nil) || (got != nil && *got != *tc.want) {
			t.Fatalf("hoursText(%q) = %v; want %v", tc.raw, got, tc.want)
		}
	}
}

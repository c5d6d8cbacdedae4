package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/tbourn/review-outreach/internal/places"
)

func TestSearchPlaces(t *testing.T) {
	var gotQ, gotLoc string
	e := newTestEnv(t, stubPlaces{
		search: func(_ context.Context, q, loc string) ([]places.Place, error) {
			gotQ, gotLoc = q, loc
			if q == "" {
				return nil, nil
			}
			return []places.Place{{PlaceID: "P1", Name: "Joe's Diner"}}, nil
		},
	})

	w := e.do(t, http.MethodGet, "/places/search?query=diner&location=Springfield", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search -> %d", w.Code)
	}
	if gotQ != "diner" || gotLoc != "Springfield" {
		t.Fatalf("args = %q %q", gotQ, gotLoc)
	}
	resp := decode[PlaceSearchResponse](t, w)
	if len(resp.Results) != 1 || resp.Results[0].PlaceID != "P1" {
		t.Fatalf("results = %+v", resp.Results)
	}

	w = e.do(t, http.MethodGet, "/places/search", "u1", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"results":[]`) {
		t.Fatalf("blank query -> %d %s", w.Code, w.Body.String())
	}
}

func TestPlaceDetails(t *testing.T) {
	e := newTestEnv(t, stubPlaces{
		details: func(_ context.Context, id string) (*places.PlaceDetails, error) {
			switch id {
			case "P1":
				return &places.PlaceDetails{PlaceID: "P1", Name: "Joe's Diner"}, nil
			case "down":
				return nil, errors.New("places details: connection refused")
			}
			return nil, places.ErrPlaceNotFound
		},
	})

	w := e.do(t, http.MethodGet, "/places/P1", "u1", nil)
	if w.Code != http.StatusOK || decode[places.PlaceDetails](t, w).Name != "Joe's Diner" {
		t.Fatalf("details -> %d %s", w.Code, w.Body.String())
	}
	if w = e.do(t, http.MethodGet, "/places/nope", "u1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing -> %d", w.Code)
	}
	if w = e.do(t, http.MethodGet, "/places/down", "u1", nil); w.Code != http.StatusBadGateway {
		t.Fatalf("upstream down -> %d", w.Code)
	}
}

func TestPlaceDetails_PhotoURLsPointAtProxy(t *testing.T) {
	e := newTestEnv(t, stubPlaces{
		details: func(_ context.Context, id string) (*places.PlaceDetails, error) {
			return &places.PlaceDetails{PlaceID: id, Photos: []places.Photo{{Reference: "a/b+c", Width: 800}}}, nil
		},
	})

	w := e.do(t, http.MethodGet, "/places/P1", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("details -> %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "key=") {
		t.Fatalf("directory key leaked: %s", w.Body.String())
	}
	d := decode[places.PlaceDetails](t, w)
	if len(d.Photos) != 1 || d.Photos[0].URL != "/places/photo?ref=a%2Fb%2Bc" {
		t.Fatalf("photos = %+v", d.Photos)
	}
}

func TestPlacePhoto(t *testing.T) {
	e := newTestEnv(t, stubPlaces{
		photo: func(_ context.Context, ref string) (*places.PhotoData, error) {
			switch ref {
			case "ok":
				return &places.PhotoData{ContentType: "image/png", Body: []byte("png")}, nil
			case "down":
				return nil, errors.New("places photo: unexpected status 503")
			}
			return nil, places.ErrPhotoNotFound
		},
	})

	w := e.do(t, http.MethodGet, "/places/photo?ref=ok", "u1", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" || w.Body.String() != "png" {
		t.Fatalf("photo -> %d %q %q", w.Code, w.Header().Get("Content-Type"), w.Body.String())
	}
	cases := map[string]int{
		"/places/photo":          http.StatusBadRequest,
		"/places/photo?ref=gone": http.StatusNotFound,
		"/places/photo?ref=down": http.StatusBadGateway,
	}
	for path, want := range cases {
		if w := e.do(t, http.MethodGet, path, "u1", nil); w.Code != want {
			t.Errorf("%s -> %d; want %d", path, w.Code, want)
		}
	}
}

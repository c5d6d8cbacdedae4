// Package places is a thin client for the Google Places web service. It backs
// the business search and business details endpoints used while creating
// contacts and filling in the business profile.
//
// Upstream failures are never retried. Search degrades to an empty result
// list; Details reports ErrPlaceNotFound for any non-OK upstream status.
// The API key never leaves this package: photos are returned as references
// and fetched through Photo.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/review-outreach/internal/config"
	"github.com/tbourn/review-outreach/internal/domain"
)

const (
	maxSearchResults = 15
	maxReviews       = 3
	maxPhotos        = 10
	photoMaxWidth    = 800
	maxPhotoBytes    = 10 << 20

	detailsFields = "name,formatted_address,formatted_phone_number,website,rating,user_ratings_total,reviews,photos,opening_hours,url,business_status,types"

	statusOK = "OK"
)

// ErrPlaceNotFound is returned by Details when the upstream does not answer
// with status OK.
var ErrPlaceNotFound = errors.New("place not found")

// ErrPhotoNotFound is returned by Photo for a blank or rejected reference.
var ErrPhotoNotFound = errors.New("photo not found")

// Place is a single search hit.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	ReviewURL        string   `json:"review_url"`
}

// Review is an excerpt of a public review.
type Review struct {
	AuthorName      string `json:"author_name"`
	Rating          int    `json:"rating"`
	Text            string `json:"text"`
	Time            int64  `json:"time"`
	ProfilePhotoURL string `json:"profile_photo_url"`
}

// Photo references a listing photo. URL is filled by the HTTP layer with the
// path of its photo endpoint.
type Photo struct {
	Reference string `json:"photo_reference"`
	URL       string `json:"url,omitempty"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// PhotoData is an image fetched from the directory.
type PhotoData struct {
	ContentType string
	Body        []byte
}

// OpeningHours mirrors the upstream opening_hours block.
type OpeningHours struct {
	OpenNow     *bool    `json:"open_now"`
	WeekdayText []string `json:"weekday_text"`
}

// PlaceDetails is the enriched record for one place.
type PlaceDetails struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	Address          string        `json:"address"`
	Phone            string        `json:"phone"`
	Website          string        `json:"website"`
	Rating           *float64      `json:"rating"`
	UserRatingsTotal *int          `json:"user_ratings_total"`
	GoogleMapsURL    string        `json:"google_maps_url"`
	BusinessStatus   string        `json:"business_status"`
	Types            []string      `json:"types"`
	Photos           []Photo       `json:"photos"`
	Reviews          []Review      `json:"reviews"`
	OpeningHours     *OpeningHours `json:"opening_hours"`
	ReviewURL        string        `json:"review_url"`
}

// Client calls the Places web service. A zero APIKey is allowed; the upstream
// then rejects every call and the client degrades as documented.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New builds a Client from cfg.
func New(cfg config.PlacesConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// Search looks up establishments matching query, optionally narrowed to a
// location. A blank query returns an empty slice without calling upstream.
func (c *Client) Search(ctx context.Context, query, location string) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Place{}, nil
	}
	q := query
	if loc := strings.TrimSpace(location); loc != "" {
		q = query + " in " + loc
	}

	ctx, span := otel.Tracer("places/Client").Start(ctx, "Search",
		trace.WithAttributes(attribute.Int("places.query_len", len(q))),
	)
	defer span.End()

	var body struct {
		Status  string `json:"status"`
		Results []struct {
			PlaceID          string   `json:"place_id"`
			Name             string   `json:"name"`
			FormattedAddress string   `json:"formatted_address"`
			Rating           *float64 `json:"rating"`
			UserRatingsTotal *int     `json:"user_ratings_total"`
		} `json:"results"`
	}
	params := url.Values{
		"query": {q},
		"type":  {"establishment"},
	}
	if err := c.getJSON(ctx, "/textsearch/json", params, &body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream failure")
		logger(ctx).Warn().Err(err).Msg("places search failed")
		return []Place{}, nil
	}
	if body.Status != statusOK {
		span.SetAttributes(attribute.String("places.status", body.Status))
		if body.Status != "ZERO_RESULTS" {
			logger(ctx).Warn().Str("status", body.Status).Msg("places search upstream error")
		}
		return []Place{}, nil
	}

	n := len(body.Results)
	if n > maxSearchResults {
		n = maxSearchResults
	}
	out := make([]Place, 0, n)
	for _, r := range body.Results[:n] {
		out = append(out, Place{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			ReviewURL:        domain.GoogleReviewURLFor(r.PlaceID),
		})
	}
	span.SetAttributes(attribute.Int("places.results", len(out)))
	return out, nil
}

// Details fetches the enriched record for placeID. Any non-OK upstream status
// yields ErrPlaceNotFound; transport or decode failures are returned wrapped.
func (c *Client) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, ErrPlaceNotFound
	}

	ctx, span := otel.Tracer("places/Client").Start(ctx, "Details",
		trace.WithAttributes(attribute.String("places.place_id", placeID)),
	)
	defer span.End()

	var body struct {
		Status string `json:"status"`
		Result struct {
			Name             string   `json:"name"`
			FormattedAddress string   `json:"formatted_address"`
			Phone            string   `json:"formatted_phone_number"`
			Website          string   `json:"website"`
			Rating           *float64 `json:"rating"`
			UserRatingsTotal *int     `json:"user_ratings_total"`
			URL              string   `json:"url"`
			BusinessStatus   string   `json:"business_status"`
			Types            []string `json:"types"`
			Reviews          []Review `json:"reviews"`
			Photos           []struct {
				PhotoReference string `json:"photo_reference"`
				Width          int    `json:"width"`
				Height         int    `json:"height"`
			} `json:"photos"`
			OpeningHours *OpeningHours `json:"opening_hours"`
		} `json:"result"`
	}
	params := url.Values{
		"place_id": {placeID},
		"fields":   {detailsFields},
	}
	if err := c.getJSON(ctx, "/details/json", params, &body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream failure")
		return nil, fmt.Errorf("places details: %w", err)
	}
	if body.Status != statusOK {
		span.SetAttributes(attribute.String("places.status", body.Status))
		return nil, ErrPlaceNotFound
	}

	r := body.Result
	d := &PlaceDetails{
		PlaceID:          placeID,
		Name:             r.Name,
		Address:          r.FormattedAddress,
		Phone:            r.Phone,
		Website:          r.Website,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		GoogleMapsURL:    r.URL,
		BusinessStatus:   r.BusinessStatus,
		Types:            r.Types,
		OpeningHours:     r.OpeningHours,
		ReviewURL:        domain.GoogleReviewURLFor(placeID),
		Photos:           []Photo{},
		Reviews:          []Review{},
	}
	if d.Types == nil {
		d.Types = []string{}
	}
	if d.OpeningHours != nil && d.OpeningHours.WeekdayText == nil {
		d.OpeningHours.WeekdayText = []string{}
	}
	for i, p := range r.Photos {
		if i == maxPhotos {
			break
		}
		d.Photos = append(d.Photos, Photo{
			Reference: p.PhotoReference,
			Width:     p.Width,
			Height:    p.Height,
		})
	}
	for i, rv := range r.Reviews {
		if i == maxReviews {
			break
		}
		d.Reviews = append(d.Reviews, rv)
	}
	return d, nil
}

// Photo downloads the image behind ref, following the upstream redirect to
// the image host. Upstream 4xx answers map to ErrPhotoNotFound; bodies that
// are not images or exceed maxPhotoBytes are errors.
func (c *Client) Photo(ctx context.Context, ref string) (*PhotoData, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrPhotoNotFound
	}

	ctx, span := otel.Tracer("places/Client").Start(ctx, "Photo")
	defer span.End()

	params := url.Values{
		"maxwidth":       {strconv.Itoa(photoMaxWidth)},
		"photoreference": {ref},
		"key":            {c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/photo?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("places photo: %w", withoutURL(err))
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(withoutURL(err))
		span.SetStatus(codes.Error, "upstream failure")
		return nil, fmt.Errorf("places photo: %w", withoutURL(err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, ErrPhotoNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("places photo: unexpected status %d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("places photo: unexpected content type %q", ct)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("places photo: %w", withoutURL(err))
	}
	if len(body) > maxPhotoBytes {
		return nil, fmt.Errorf("places photo: larger than %d bytes", maxPhotoBytes)
	}
	span.SetAttributes(attribute.Int("places.photo.bytes", len(body)))
	return &PhotoData{ContentType: ct, Body: body}, nil
}

// withoutURL drops the request URL from transport errors; it carries the key.
func withoutURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

// getJSON issues a GET to baseURL+path with params plus the API key and
// decodes a 2xx JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return withoutURL(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

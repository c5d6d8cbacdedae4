package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/review-outreach/internal/places"
)

// PlaceSearchResponse wraps directory search hits.
type PlaceSearchResponse struct {
	Results []places.Place `json:"results"`
}

// SearchPlaces godoc
// @ID          searchPlaces
// @Summary     Search the business directory
// @Description Returns up to 15 matches. A blank query, or any upstream failure, yields an empty list.
// @Tags        Places
// @Produce     json
// @Security    BearerAuth
//
// @Param       query     query  string  true   "Business name"  example(Joe's Diner)
// @Param       location  query  string  false  "City or area"   example(Springfield)
//
// @Success     200  {object}  handlers.PlaceSearchResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /places/search [get]
func (h *Handlers) SearchPlaces(c *gin.Context) {
	results, err := h.places.Search(c.Request.Context(), c.Query("query"), c.Query("location"))
	if err != nil {
		failService(c, err, ErrCodeUpstreamFailed)
		return
	}
	if results == nil {
		results = []places.Place{}
	}
	ok(c, http.StatusOK, PlaceSearchResponse{Results: results})
}

// PlaceDetails godoc
// @ID          placeDetails
// @Summary     Get directory details for a place
// @Tags        Places
// @Produce     json
// @Security    BearerAuth
//
// @Param       place_id  path  string  true  "Directory place id"
//
// @Success     200  {object}  places.PlaceDetails
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Place not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Directory unavailable"
// @Router      /places/{place_id} [get]
func (h *Handlers) PlaceDetails(c *gin.Context) {
	id := strings.TrimSpace(c.Param("place_id"))
	if id == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "place_id required")
		return
	}
	d, err := h.places.Details(c.Request.Context(), id)
	switch {
	case err == nil:
		base := strings.TrimSuffix(c.FullPath(), ":place_id") + "photo?"
		for i := range d.Photos {
			d.Photos[i].URL = base + url.Values{"ref": {d.Photos[i].Reference}}.Encode()
		}
		ok(c, http.StatusOK, d)
	case errors.Is(err, places.ErrPlaceNotFound):
		failService(c, err, ErrCodeUpstreamFailed)
	default:
		_ = c.Error(err)
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, "business directory unavailable")
	}
}

// PlacePhoto godoc
// @ID          placePhoto
// @Summary     Fetch a directory photo
// @Description Streams the image behind a photo_reference from place details, so the directory key stays on the server.
// @Tags        Places
// @Produce     image/jpeg
// @Produce     image/png
// @Security    BearerAuth
//
// @Param       ref  query  string  true  "photo_reference from place details"
//
// @Success     200  {file}    binary
// @Failure     400  {object}  handlers.ErrorResponse  "Missing reference"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Photo not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Directory unavailable"
// @Router      /places/photo [get]
func (h *Handlers) PlacePhoto(c *gin.Context) {
	ref := strings.TrimSpace(c.Query("ref"))
	if ref == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ref required")
		return
	}
	p, err := h.places.Photo(c.Request.Context(), ref)
	switch {
	case err == nil:
		c.Header("Cache-Control", "private, max-age=86400")
		c.Data(http.StatusOK, p.ContentType, p.Body)
	case errors.Is(err, places.ErrPhotoNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "photo not found")
	default:
		_ = c.Error(err)
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, "business directory unavailable")
	}
}

package client

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/pkordes/tripboard/internal/domain"
)

const myMapsProvider = "google-mymaps"

// DefaultMyMapsURL is the Google Maps host serving My Maps exports.
const DefaultMyMapsURL = "https://www.google.com"

var (
	viewerMidRe = regexp.MustCompile(`/d/(?:viewer|edit|embed)\?(?:[^#]*&)?mid=([^&#]+)`)
	bareMidRe   = regexp.MustCompile(`^[\w-]{8,}$`)
)

// MyMaps downloads My Maps layers as KML.
type MyMaps struct {
	fetch   *Fetcher
	baseURL string
}

func NewMyMaps(f *Fetcher, baseURL string) *MyMaps {
	if baseURL == "" {
		baseURL = DefaultMyMapsURL
	}
	return &MyMaps{fetch: f, baseURL: strings.TrimRight(baseURL, "/")}
}

// MapID extracts the map id from a My Maps share link. A bare id is
// accepted as is.
func MapID(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if bareMidRe.MatchString(link) {
		return link, true
	}
	if u, err := url.Parse(link); err == nil {
		if mid := u.Query().Get("mid"); mid != "" {
			return mid, true
		}
	}
	if m := viewerMidRe.FindStringSubmatch(link); m != nil {
		return m[1], true
	}
	return "", false
}

// FetchKML downloads the KML export of a map.
func (c *MyMaps) FetchKML(ctx context.Context, link string) ([]byte, error) {
	mid, ok := MapID(link)
	if !ok {
		return nil, fmt.Errorf("client.MyMaps.FetchKML: %w: not a My Maps link", domain.ErrValidation)
	}
	q := url.Values{}
	q.Set("mid", mid)
	q.Set("forcekml", "1")
	body, err := c.fetch.Get(ctx, myMapsProvider, c.baseURL+"/maps/d/kml?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("client.MyMaps.FetchKML: %w", err)
	}
	return body, nil
}

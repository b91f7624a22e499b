package dgis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"lunchbot/internal/model"
)

func testClient(serverURL string) *Client {
	return &Client{
		apiKey:     "test-key",
		baseURL:    serverURL,
		httpClient: &http.Client{Timeout: time.Second},
	}
}

func TestGeocode(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		status    int
		wantErr   bool
		wantCoord model.Coordinates
	}{
		{
			name:      "success",
			response:  `{"meta":{"code":200},"result":{"items":[{"point":{"lat":39.78,"lon":-89.65}}]}}`,
			status:    http.StatusOK,
			wantCoord: model.Coordinates{Lat: 39.78, Lon: -89.65},
		},
		{
			name:     "api not found code",
			response: `{"meta":{"code":404}}`,
			status:   http.StatusOK,
			wantErr:  true,
		},
		{
			name:     "empty items",
			response: `{"meta":{"code":200},"result":{"items":[]}}`,
			status:   http.StatusOK,
			wantErr:  true,
		},
		{
			name:     "item without point",
			response: `{"meta":{"code":200},"result":{"items":[{}]}}`,
			status:   http.StatusOK,
			wantErr:  true,
		},
		{
			name:     "malformed body",
			response: `{"meta":`,
			status:   http.StatusOK,
			wantErr:  true,
		},
		{
			name:     "http error status",
			response: `{}`,
			status:   http.StatusInternalServerError,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/3.0/items/geocode" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("q") == "" {
					t.Error("query parameter q is empty")
				}
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.response)
			}))
			defer srv.Close()

			client := testClient(srv.URL)
			coords, err := client.Geocode(context.Background(), "Springfield, 123 Main St")

			if tt.wantErr {
				if !errors.Is(err, ErrAddressNotFound) {
					t.Fatalf("want ErrAddressNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if coords != tt.wantCoord {
				t.Errorf("coords = %+v, want %+v", coords, tt.wantCoord)
			}
		})
	}
}

func TestGeocodeNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // соединение будет отклонено

	client := testClient(srv.URL)
	if _, err := client.Geocode(context.Background(), "anywhere"); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("want ErrAddressNotFound, got %v", err)
	}
}

func TestFindPlacesPaginationShortCircuit(t *testing.T) {
	var mu sync.Mutex
	requestedPages := []int{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		mu.Lock()
		requestedPages = append(requestedPages, page)
		mu.Unlock()

		// Страницы 1 и 2 отдают по два заведения, страница 3 пустая
		if page <= 2 {
			fmt.Fprintf(w, `{"meta":{"code":200},"result":{"items":[{"name":"Place %d-1"},{"name":"Place %d-2"}]}}`, page, page)
			return
		}
		fmt.Fprint(w, `{"meta":{"code":200},"result":{"items":[]}}`)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	places := client.FindPlaces(context.Background(), model.Coordinates{Lat: 43.23, Lon: 76.88}, 1000)

	if len(places) != 4 {
		t.Errorf("got %d places, want 4", len(places))
	}
	if len(requestedPages) != 3 {
		t.Fatalf("requested pages %v, want exactly [1 2 3]", requestedPages)
	}
	for i, page := range requestedPages {
		if page != i+1 {
			t.Errorf("requested pages %v, want sequential from 1", requestedPages)
			break
		}
	}
	if places[0].Name != "Place 1-1" || places[3].Name != "Place 2-2" {
		t.Errorf("aggregate should preserve page order, got %+v", places)
	}
}

func TestFindPlacesStopsAtMaxPages(t *testing.T) {
	var mu sync.Mutex
	requests := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		fmt.Fprint(w, `{"meta":{"code":200},"result":{"items":[{"name":"Endless"}]}}`)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	places := client.FindPlaces(context.Background(), model.Coordinates{}, 1000)

	if requests != maxPages {
		t.Errorf("made %d requests, want %d", requests, maxPages)
	}
	if len(places) != maxPages {
		t.Errorf("got %d places, want %d", len(places), maxPages)
	}
}

func TestFindPlacesNetworkErrorReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := testClient(srv.URL)
	if places := client.FindPlaces(context.Background(), model.Coordinates{}, 500); len(places) != 0 {
		t.Errorf("want empty result on network failure, got %d places", len(places))
	}
}

func TestFindPlacesRequestParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "branch" {
			t.Errorf("type = %q, want branch", q.Get("type"))
		}
		if q.Get("radius") != "2500" {
			t.Errorf("radius = %q, want 2500", q.Get("radius"))
		}
		if q.Get("point") == "" {
			t.Error("point parameter is empty")
		}
		fmt.Fprint(w, `{"meta":{"code":200},"result":{"items":[]}}`)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	client.FindPlaces(context.Background(), model.Coordinates{Lat: 43.23, Lon: 76.88}, 2500)
}

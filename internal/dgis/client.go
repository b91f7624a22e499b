// Package dgis реализует клиент 2GIS Catalog API: геокодирование адресов
// и постраничный поиск заведений вокруг точки.
package dgis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"lunchbot/internal/model"
)

// ErrAddressNotFound возвращается, когда геокодер не смог разрешить адрес.
// Сетевые сбои и некорректные ответы API сводятся к этой же ошибке:
// повторный запрос остается на усмотрение пользователя.
var ErrAddressNotFound = errors.New("address not found")

const (
	defaultBaseURL = "https://catalog.api.2gis.com"

	// Запрос каталога из исходной версии бота
	placesQuery = "кафе, ресторан, столовая"

	pageSize = 10
	maxPages = 10
)

// Client обращается к 2GIS Catalog API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиент 2GIS с коротким таймаутом на каждый запрос
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Meta struct {
		Code int `json:"code"`
	} `json:"meta"`
	Result struct {
		Items []struct {
			Point *model.Coordinates `json:"point"`
		} `json:"items"`
	} `json:"result"`
}

type catalogResponse struct {
	Meta struct {
		Code int `json:"code"`
	} `json:"meta"`
	Result struct {
		Items []model.Place `json:"items"`
	} `json:"result"`
}

// Geocode разрешает текстовый адрес в координаты. Выполняется один запрос,
// без повторов: любой неуспех — ErrAddressNotFound.
func (c *Client) Geocode(ctx context.Context, address string) (model.Coordinates, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("key", c.apiKey)
	params.Set("fields", "items.point")

	var parsed geocodeResponse
	if err := c.getJSON(ctx, "/3.0/items/geocode", params, &parsed); err != nil {
		logrus.WithError(err).WithField("address", address).Warn("запрос к геокодеру не удался")
		return model.Coordinates{}, ErrAddressNotFound
	}

	if parsed.Meta.Code != http.StatusOK || len(parsed.Result.Items) == 0 || parsed.Result.Items[0].Point == nil {
		return model.Coordinates{}, ErrAddressNotFound
	}
	return *parsed.Result.Items[0].Point, nil
}

// FindPlaces собирает заведения вокруг точки, запрашивая страницы каталога
// последовательно. Обход останавливается на первой пустой или неуспешной
// странице — это обычный конец выдачи, а не ошибка. Сетевые сбои
// проглатываются: наружу уходит то, что успели собрать.
func (c *Client) FindPlaces(ctx context.Context, point model.Coordinates, radiusMeters int) []model.Place {
	var all []model.Place
	for page := 1; page <= maxPages; page++ {
		items, ok := c.fetchPage(ctx, point, radiusMeters, page)
		if !ok {
			break
		}
		all = append(all, items...)
	}
	return all
}

func (c *Client) fetchPage(ctx context.Context, point model.Coordinates, radiusMeters, page int) ([]model.Place, bool) {
	params := url.Values{}
	params.Set("q", placesQuery)
	params.Set("key", c.apiKey)
	params.Set("point", fmt.Sprintf("%f,%f", point.Lon, point.Lat))
	params.Set("radius", strconv.Itoa(radiusMeters))
	params.Set("type", "branch")
	params.Set("fields", "items.name,items.address_name,items.url,items.point")
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(page))

	var parsed catalogResponse
	if err := c.getJSON(ctx, "/3.0/items", params, &parsed); err != nil {
		logrus.WithError(err).WithField("page", page).Warn("запрос страницы каталога не удался")
		return nil, false
	}
	if parsed.Meta.Code != http.StatusOK || len(parsed.Result.Items) == 0 {
		return nil, false
	}
	return parsed.Result.Items, true
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

package model

// Coordinates — географическая точка в десятичных градусах
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place представляет одно заведение из выдачи каталога.
// Не сохраняется между запросами, формируется заново на каждый поиск.
type Place struct {
	Name        string       `json:"name"`
	AddressName string       `json:"address_name,omitempty"`
	URL         string       `json:"url,omitempty"`
	Point       *Coordinates `json:"point,omitempty"`
}

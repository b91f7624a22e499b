// Package geo содержит вычисление расстояний между географическими точками.
package geo

import (
	"math"

	"lunchbot/internal/model"
)

// Средний радиус Земли в метрах
const earthRadiusM = 6371000.0

// DistanceMeters возвращает расстояние по дуге большого круга между двумя
// точками (формула гаверсинусов), усеченное до целого числа метров.
func DistanceMeters(a, b model.Coordinates) int {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return int(2 * earthRadiusM * math.Asin(math.Sqrt(h)))
}

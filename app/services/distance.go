package services

import (
	"sync"

	"github.com/pisangijoevi/ongkir/app/db/reference"
)

const outerZone = 5

// DistanceHeuristic approximates inter-city distance with coarse zones:
// 1 Jakarta, 2 West Java, 3 Central Java, 4 East Java, 5 the rest of Indonesia.
// Two cities in zone 5 count as zero distance apart.
type DistanceHeuristic struct {
	zoneOf map[string]int
}

func NewDistanceHeuristic(data *reference.Dataset) *DistanceHeuristic {
	h := &DistanceHeuristic{zoneOf: make(map[string]int)}
	for zone, ids := range data.Zones() {
		for _, id := range ids {
			h.zoneOf[id] = zone
		}
	}
	return h
}

func (h *DistanceHeuristic) ZoneOf(cityID string) int {
	if zone, ok := h.zoneOf[cityID]; ok {
		return zone
	}
	return outerZone
}

func (h *DistanceHeuristic) Multiplier(originCityID, destinationCityID string) float64 {
	diff := h.ZoneOf(originCityID) - h.ZoneOf(destinationCityID)
	if diff < 0 {
		diff = -diff
	}

	switch diff {
	case 0:
		return 1.0
	case 1:
		return 1.2
	case 2:
		return 1.5
	case 3:
		return 2.0
	default:
		return 2.5
	}
}

var (
	defaultHeuristicOnce sync.Once
	defaultHeuristic     *DistanceHeuristic
)

// CalculateDistanceMultiplier uses the zones from the embedded reference dataset.
func CalculateDistanceMultiplier(originCityID, destinationCityID string) float64 {
	defaultHeuristicOnce.Do(func() {
		defaultHeuristic = NewDistanceHeuristic(reference.Default())
	})
	return defaultHeuristic.Multiplier(originCityID, destinationCityID)
}

package reference

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pisangijoevi/ongkir/app/models"
)

//go:embed reference.json
var embedded []byte

type carrierRecord struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Services []struct {
		ServiceCode   string `json:"serviceCode"`
		Description   string `json:"description"`
		BaseRatePerKg int64  `json:"baseRatePerKg"`
		EtdDays       string `json:"etdDays"`
	} `json:"services"`
}

type document struct {
	Provinces []models.Province `json:"provinces"`
	Cities    []models.City     `json:"cities"`
	Zones     map[int][]string  `json:"zones"`
	Carriers  []carrierRecord   `json:"carriers"`
}

// Dataset is the read-only lookup data used when the live gateway is unavailable.
// Accessors return copies so callers cannot mutate the shared tables.
type Dataset struct {
	provinces    []models.Province
	cityIndex    map[string][]models.City
	cityByID     map[string]models.City
	zones        map[int][]string
	carrierOrder []string
	carriers     map[string][]models.CarrierService
}

var (
	defaultOnce sync.Once
	defaultData *Dataset
)

// Default returns the dataset compiled into the binary.
func Default() *Dataset {
	defaultOnce.Do(func() {
		ds, err := Parse(bytes.NewReader(embedded))
		if err != nil {
			panic(fmt.Sprintf("reference: embedded dataset is invalid: %v", err))
		}
		defaultData = ds
	})
	return defaultData
}

func Parse(r io.Reader) (*Dataset, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode reference data: %w", err)
	}

	ds := &Dataset{
		provinces: doc.Provinces,
		cityIndex: make(map[string][]models.City),
		cityByID:  make(map[string]models.City, len(doc.Cities)),
		zones:     make(map[int][]string, len(doc.Zones)),
		carriers:  make(map[string][]models.CarrierService, len(doc.Carriers)),
	}

	for _, c := range doc.Cities {
		if _, dup := ds.cityByID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate city id %q", c.ID)
		}
		if c.Type != "Kota" && c.Type != "Kabupaten" {
			return nil, fmt.Errorf("city %q has invalid type %q", c.ID, c.Type)
		}
		ds.cityByID[c.ID] = c
		ds.cityIndex[c.ProvinceID] = append(ds.cityIndex[c.ProvinceID], c)
	}

	seen := make(map[string]int)
	for zone, ids := range doc.Zones {
		if zone < 1 || zone > 4 {
			return nil, fmt.Errorf("zone %d is out of range, only zones 1-4 are listed explicitly", zone)
		}
		for _, id := range ids {
			if prev, ok := seen[id]; ok {
				return nil, fmt.Errorf("city %q listed in zone %d and zone %d", id, prev, zone)
			}
			seen[id] = zone
		}
		ds.zones[zone] = append([]string(nil), ids...)
	}

	for _, cr := range doc.Carriers {
		code := strings.ToLower(cr.Code)
		if _, dup := ds.carriers[code]; dup {
			return nil, fmt.Errorf("duplicate carrier %q", code)
		}
		services := make([]models.CarrierService, 0, len(cr.Services))
		for _, s := range cr.Services {
			services = append(services, models.CarrierService{
				CarrierCode:   code,
				CarrierName:   cr.Name,
				ServiceCode:   s.ServiceCode,
				Description:   s.Description,
				BaseRatePerKg: s.BaseRatePerKg,
				EtdDays:       s.EtdDays,
			})
		}
		ds.carriers[code] = services
		ds.carrierOrder = append(ds.carrierOrder, code)
	}

	return ds, nil
}

func (d *Dataset) Provinces() []models.Province {
	return append([]models.Province(nil), d.provinces...)
}

// Cities returns the cities of a province, or an empty list when none are known.
func (d *Dataset) Cities(provinceID string) []models.City {
	out := append([]models.City{}, d.cityIndex[provinceID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (d *Dataset) CarrierServices(carrierCode string) ([]models.CarrierService, bool) {
	services, ok := d.carriers[strings.ToLower(strings.TrimSpace(carrierCode))]
	if !ok {
		return nil, false
	}
	return append([]models.CarrierService(nil), services...), true
}

// Carriers lists carrier codes in the order they appear in the dataset.
func (d *Dataset) Carriers() []string {
	return append([]string(nil), d.carrierOrder...)
}

// Zones returns the explicit city id lists for zones 1 through 4.
func (d *Dataset) Zones() map[int][]string {
	out := make(map[int][]string, len(d.zones))
	for z, ids := range d.zones {
		out[z] = append([]string(nil), ids...)
	}
	return out
}

package other

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexString accepts both JSON strings and numbers; the destination endpoints have
// returned ids in either form depending on API version.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flex string: unsupported value %s", string(b))
	}
	if i, err := n.Int64(); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

type KomerceMeta struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Status  string `json:"status"`
}

type ProvinceResponse struct {
	Meta *KomerceMeta    `json:"meta"`
	Data *[]ProvinceItem `json:"data"`
}

type ProvinceItem struct {
	ID         FlexString `json:"id"`
	LegacyID   FlexString `json:"province_id"`
	Name       string     `json:"name"`
	LegacyName string     `json:"province"`
}

func (p ProvinceItem) ResolvedID() string {
	if p.ID != "" {
		return string(p.ID)
	}
	return string(p.LegacyID)
}

func (p ProvinceItem) ResolvedName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.LegacyName
}

type CityResponse struct {
	Meta *KomerceMeta `json:"meta"`
	Data *[]CityItem  `json:"data"`
}

type CityItem struct {
	ID         FlexString `json:"id"`
	LegacyID   FlexString `json:"city_id"`
	Name       string     `json:"name"`
	LegacyName string     `json:"city_name"`
	Type       string     `json:"type"`
	PostalCode string     `json:"postal_code"`
	ZipCode    string     `json:"zip_code"`
	ProvinceID FlexString `json:"province_id"`
}

func (c CityItem) ResolvedID() string {
	if c.ID != "" {
		return string(c.ID)
	}
	return string(c.LegacyID)
}

func (c CityItem) ResolvedName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.LegacyName
}

func (c CityItem) ResolvedPostalCode() string {
	if c.PostalCode != "" {
		return c.PostalCode
	}
	return c.ZipCode
}

type Status struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

type CostResponse struct {
	RajaOngkir *struct {
		Query   interface{}     `json:"query"`
		Status  Status          `json:"status"`
		Results []CourierResult `json:"results"`
	} `json:"rajaongkir"`
}

type CourierResult struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Costs []Cost `json:"costs"`
}

type Cost struct {
	Service     string              `json:"service"`
	Description string              `json:"description"`
	Cost        []ServiceCostDetail `json:"cost"`
}

type ServiceCostDetail struct {
	Value int64  `json:"value"`
	Etd   string `json:"etd"`
	Note  string `json:"note"`
}

type WaybillResponse struct {
	RajaOngkir *struct {
		Query  interface{}    `json:"query"`
		Status Status         `json:"status"`
		Result map[string]any `json:"result"`
	} `json:"rajaongkir"`
}

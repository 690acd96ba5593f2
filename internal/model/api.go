package model

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Code    string `json:"code,omitempty"`
}

// CityView is the public projection of a replica row. Sync bookkeeping
// fields are not exposed to external callers.
type CityView struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	DisplayName   string  `json:"displayName"`
	Code          string  `json:"code"`
	State         string  `json:"state"`
	Country       string  `json:"country"`
	Timezone      string  `json:"timezone"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	PinCodeRange  *string `json:"pinCodeRange,omitempty"`
	RegionCode    *string `json:"regionCode,omitempty"`
	IsActive      bool    `json:"isActive"`
	IsOperational bool    `json:"isOperational"`
}

// View projects a replica row for external callers.
func (c *City) View() CityView {
	return CityView{
		ID:            c.ID,
		Name:          c.Name,
		DisplayName:   c.DisplayName,
		Code:          c.Code,
		State:         c.State,
		Country:       c.Country,
		Timezone:      c.Timezone,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		PinCodeRange:  c.PinCodeRange,
		RegionCode:    c.RegionCode,
		IsActive:      c.IsActive,
		IsOperational: c.IsOperational,
	}
}

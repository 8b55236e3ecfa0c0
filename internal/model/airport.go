package model

// Airport mirrors the `airports` table.  Only the IATA code and the
// coordinates take part in scheduling decisions; the remaining columns are
// descriptive.
type Airport struct {
    IATACode         string  `json:"iata_code"`         // airports.iata_code (primary key)
    ICAOCode         string  `json:"icao_code"`         // airports.icao_code
    Name             string  `json:"name"`              // airports.name
    Type             string  `json:"type"`              // airports.type (large_airport, medium_airport...)
    LatitudeDeg      float64 `json:"latitude_deg"`      // airports.latitude_deg
    LongitudeDeg     float64 `json:"longitude_deg"`     // airports.longitude_deg
    ElevationFt      int     `json:"elevation_ft"`      // airports.elevation_ft
    Continent        string  `json:"continent"`         // airports.continent
    ISOCountry       string  `json:"iso_country"`       // airports.iso_country
    Municipality     string  `json:"municipality"`      // airports.municipality
    ScheduledService bool    `json:"scheduled_service"` // airports.scheduled_service
}

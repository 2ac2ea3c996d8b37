package MultiRouteOptimizer

import (
	"encoding/json"

	"Loopless/DistanceMatrix"
)

const (
	MinWaypoints = 2
	MaxWaypoints = 15
)

// LocationInput is one waypoint as the client sends it
type LocationInput struct {
	ID   json.RawMessage `json:"id,omitempty"`
	Name string          `json:"name" validate:"max=256"`
	Lat  *float64        `json:"lat" validate:"required,latitude"`
	Lng  *float64        `json:"lng" validate:"required,longitude"`
}

// OptimizeRequest is the structure of the incoming request
type OptimizeRequest struct {
	Locations []LocationInput `json:"locations" validate:"required,min=2,max=15,dive"`
}

// Waypoint is a validated location. OriginalIdx is its position in the request and
// the key for every distance matrix lookup.
type Waypoint struct {
	ID          json.RawMessage `json:"id,omitempty"`
	Name        string          `json:"name"`
	Lat         float64         `json:"lat"`
	Lng         float64         `json:"lng"`
	OriginalIdx int             `json:"originalIdx"`
}

func (w Waypoint) Coordinate() DistanceMatrix.Coordinate {
	return DistanceMatrix.Coordinate{Lat: w.Lat, Lng: w.Lng}
}

// OptimizedRoute is the assembled solver result
type OptimizedRoute struct {
	Path        []Waypoint
	Distance    string // kilometers, two decimals
	TotalMeters float64
	Matrix      DistanceMatrix.Matrix
}

// PathLeg is one row of the itinerary with the distance travelled so far
type PathLeg struct {
	Waypoint
	Running     float64 `json:"running"`     // meters
	Accumulated string  `json:"accumulated"` // kilometers, two decimals
	IsStart     bool    `json:"isStart"`
	IsReturn    bool    `json:"isReturn"`
}

// OptimizeResponse is the structure of the API response
type OptimizeResponse struct {
	Path     []Waypoint            `json:"path"`
	Distance string                `json:"distance"`
	Matrix   DistanceMatrix.Matrix `json:"matrix"`
	Legs     []PathLeg             `json:"legs"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

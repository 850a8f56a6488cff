package tranzy

// GTFS-style flat records as returned by the Tranzy open data API.

type RouteRecord struct {
	RouteID        int    `json:"route_id"`
	AgencyID       int    `json:"agency_id"`
	RouteShortName string `json:"route_short_name"`
	RouteLongName  string `json:"route_long_name"`
	RouteColor     string `json:"route_color"`
	RouteType      int    `json:"route_type"`
	RouteDesc      string `json:"route_desc"`
}

type StopRecord struct {
	StopID   int     `json:"stop_id"`
	StopName string  `json:"stop_name"`
	StopLat  float64 `json:"stop_lat"`
	StopLon  float64 `json:"stop_lon"`
}

type TripRecord struct {
	TripID       string `json:"trip_id"`
	RouteID      int    `json:"route_id"`
	ShapeID      string `json:"shape_id"`
	DirectionID  int    `json:"direction_id"`
	TripHeadsign string `json:"trip_headsign"`
}

type StopTimeRecord struct {
	TripID       string `json:"trip_id"`
	StopID       int    `json:"stop_id"`
	StopSequence int    `json:"stop_sequence"`
}

type ShapePoint struct {
	ShapeID         string  `json:"shape_id"`
	ShapePtLat      float64 `json:"shape_pt_lat"`
	ShapePtLon      float64 `json:"shape_pt_lon"`
	ShapePtSequence int     `json:"shape_pt_sequence"`
}

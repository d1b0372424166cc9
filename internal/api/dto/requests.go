package dto

// CreateRequestInput is the body for POST /v1/requests
type CreateRequestInput struct {
	PickupLat   *float64 `json:"pickup_lat" binding:"required"`
	PickupLng   *float64 `json:"pickup_lng" binding:"required"`
	PickupAddr  string   `json:"pickup_addr" binding:"required"`
	DropoffLat  *float64 `json:"dropoff_lat" binding:"required"`
	DropoffLng  *float64 `json:"dropoff_lng" binding:"required"`
	DropoffAddr string   `json:"dropoff_addr" binding:"required"`
}

// EstimateQuery is the query string for GET /v1/requests/estimate
type EstimateQuery struct {
	PickupLat  *float64 `form:"pickup_lat" binding:"required"`
	PickupLng  *float64 `form:"pickup_lng" binding:"required"`
	DropoffLat *float64 `form:"dropoff_lat" binding:"required"`
	DropoffLng *float64 `form:"dropoff_lng" binding:"required"`
}

// NearbyQuery is the query string for GET /v1/requests/nearby
type NearbyQuery struct {
	Lat    *float64 `form:"lat" binding:"required"`
	Lng    *float64 `form:"lng" binding:"required"`
	Radius float64  `form:"radius"`
}

// UpdateLocationInput is the body for PUT /v1/drivers/location
type UpdateLocationInput struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// UpdateRideStatusInput is the body for PUT /v1/rides/:id/status
type UpdateRideStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// LocationMessage is one frame on the driver location WebSocket stream
type LocationMessage struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ErrorResponse is the error envelope for all failed requests
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

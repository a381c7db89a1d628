package listings_api_client

import "time"

type errorResponse struct {
	Error     string `json:"error"`
	SignInURL string `json:"sign_in_url,omitempty"`
}

type imageResponse struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

type listingResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Title           string          `json:"title"`
	PropertyType    string          `json:"property_type"`
	OwnershipStatus string          `json:"ownership_status"`
	TotalFloors     int             `json:"total_floors"`
	FloorNumber     int             `json:"floor_number"`
	TotalArea       float64         `json:"total_area"`
	LivingArea      float64         `json:"living_area"`
	KitchenArea     float64         `json:"kitchen_area"`
	Bedrooms        int             `json:"bedrooms"`
	Bathrooms       int             `json:"bathrooms"`
	ParkingSpots    int             `json:"parking_spots"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Amenities       map[string]bool `json:"amenities"`
	Infrastructure  map[string]bool `json:"infrastructure"`
	Images          []imageResponse `json:"images"`
}

type filtersResponse struct {
	Search         string   `json:"search,omitempty"`
	PropertyType   []string `json:"propertyType,omitempty"`
	Bedrooms       []int    `json:"bedrooms,omitempty"`
	Bathrooms      []int    `json:"bathrooms,omitempty"`
	MinArea        *float64 `json:"minArea,omitempty"`
	MaxArea        *float64 `json:"maxArea,omitempty"`
	Amenities      []string `json:"amenities,omitempty"`
	Infrastructure []string `json:"infrastructure,omitempty"`
}

type listingsResponse struct {
	Listings []listingResponse `json:"listings"`
	Count    int               `json:"count"`
	Filters  filtersResponse   `json:"filters"`
}

type dictionaryItemResponse struct {
	SystemName string `json:"system_name"`
	Name       string `json:"name"`
}

type dictionariesResponse struct {
	PropertyTypes     []dictionaryItemResponse `json:"property_types"`
	OwnershipStatuses []dictionaryItemResponse `json:"ownership_statuses"`
	Amenities         []dictionaryItemResponse `json:"amenities"`
	Infrastructure    []dictionaryItemResponse `json:"infrastructure"`
	AreaMin           float64                  `json:"area_min"`
	AreaMax           float64                  `json:"area_max"`
	RoomThresholds    []int                    `json:"room_thresholds"`
}

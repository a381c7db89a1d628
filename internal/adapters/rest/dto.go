package rest

import (
	"time"

	"listings-service/internal/core/domain"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	SignInURL string `json:"sign_in_url,omitempty"`
}

// ListingRequest - тело POST и PUT /listings
type ListingRequest struct {
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
	Amenities       map[string]bool `json:"amenities"`
	Infrastructure  map[string]bool `json:"infrastructure"`
}

func (req ListingRequest) toInput() domain.ListingInput {
	return domain.ListingInput{
		Title:           req.Title,
		PropertyType:    req.PropertyType,
		OwnershipStatus: req.OwnershipStatus,
		TotalFloors:     req.TotalFloors,
		FloorNumber:     req.FloorNumber,
		TotalArea:       req.TotalArea,
		LivingArea:      req.LivingArea,
		KitchenArea:     req.KitchenArea,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		ParkingSpots:    req.ParkingSpots,
		Description:     req.Description,
		Amenities:       domain.Flags(req.Amenities),
		Infrastructure:  domain.Flags(req.Infrastructure),
	}
}

type CreateListingResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type AddImageRequest struct {
	ImageURL  string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

type ImageResponse struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// ListingResponse - объявление целиком. amenities/infrastructure равны null, если записи нет.
type ListingResponse struct {
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
	Images          []ImageResponse `json:"images"`
	PrimaryImageURL string          `json:"primary_image_url,omitempty"`
}

// FiltersResponse - примененные фильтры, в тех же именах, что и query-параметры
type FiltersResponse struct {
	Search         string   `json:"search,omitempty"`
	PropertyType   []string `json:"propertyType,omitempty"`
	Bedrooms       []int    `json:"bedrooms,omitempty"`
	Bathrooms      []int    `json:"bathrooms,omitempty"`
	MinArea        *float64 `json:"minArea,omitempty"`
	MaxArea        *float64 `json:"maxArea,omitempty"`
	Amenities      []string `json:"amenities,omitempty"`
	Infrastructure []string `json:"infrastructure,omitempty"`
}

type ListingsResponse struct {
	Listings []ListingResponse `json:"listings"`
	Count    int               `json:"count"`
	Filters  FiltersResponse   `json:"filters"`
}

type DictionaryItemResponse struct {
	SystemName string `json:"system_name"`
	Name       string `json:"name"`
}

type DictionariesResponse struct {
	PropertyTypes     []DictionaryItemResponse `json:"property_types"`
	OwnershipStatuses []DictionaryItemResponse `json:"ownership_statuses"`
	Amenities         []DictionaryItemResponse `json:"amenities"`
	Infrastructure    []DictionaryItemResponse `json:"infrastructure"`
	AreaMin           float64                  `json:"area_min"`
	AreaMax           float64                  `json:"area_max"`
	RoomThresholds    []int                    `json:"room_thresholds"`
}

func toListingResponse(l *domain.Listing) ListingResponse {
	resp := ListingResponse{
		ID:              l.ID.String(),
		UserID:          l.UserID.String(),
		Title:           l.Title,
		PropertyType:    l.PropertyType,
		OwnershipStatus: l.OwnershipStatus,
		TotalFloors:     l.TotalFloors,
		FloorNumber:     l.FloorNumber,
		TotalArea:       l.TotalArea,
		LivingArea:      l.LivingArea,
		KitchenArea:     l.KitchenArea,
		Bedrooms:        l.Bedrooms,
		Bathrooms:       l.Bathrooms,
		ParkingSpots:    l.ParkingSpots,
		Description:     l.Description,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		Amenities:       l.Amenities,
		Infrastructure:  l.Infrastructure,
		Images:          make([]ImageResponse, len(l.Images)),
	}
	for i, img := range l.Images {
		resp.Images[i] = toImageResponse(img)
	}
	if primary := l.PrimaryImage(); primary != nil {
		resp.PrimaryImageURL = primary.ImageURL
	}
	return resp
}

func toImageResponse(img domain.ListingImage) ImageResponse {
	return ImageResponse{
		ID:        img.ID.String(),
		ImageURL:  img.ImageURL,
		IsPrimary: img.IsPrimary,
		CreatedAt: img.CreatedAt,
	}
}

func toFiltersResponse(f domain.FilterSet) FiltersResponse {
	return FiltersResponse{
		Search:         f.Search,
		PropertyType:   f.PropertyTypes,
		Bedrooms:       f.Bedrooms,
		Bathrooms:      f.Bathrooms,
		MinArea:        f.MinArea,
		MaxArea:        f.MaxArea,
		Amenities:      f.Amenities,
		Infrastructure: f.Infrastructure,
	}
}

func toDictionaryItems(items []domain.DictionaryItem) []DictionaryItemResponse {
	out := make([]DictionaryItemResponse, len(items))
	for i, item := range items {
		out[i] = DictionaryItemResponse{SystemName: item.SystemName, Name: item.DisplayName}
	}
	return out
}

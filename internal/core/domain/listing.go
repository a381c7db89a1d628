package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

var PropertyTypes = []DictionaryItem{
	{SystemName: "apartment", DisplayName: "Apartment"},
	{SystemName: "house", DisplayName: "House"},
	{SystemName: "studio", DisplayName: "Studio"},
	{SystemName: "penthouse", DisplayName: "Penthouse"},
	{SystemName: "loft", DisplayName: "Loft"},
}

var OwnershipStatuses = []DictionaryItem{
	{SystemName: "primary", DisplayName: "Primary"},
	{SystemName: "secondary", DisplayName: "Secondary"},
}

// IsKnownPropertyType проверяет тип недвижимости по справочнику
func IsKnownPropertyType(value string) bool {
	return inDictionary(PropertyTypes, value)
}

func IsKnownOwnershipStatus(value string) bool {
	return inDictionary(OwnershipStatuses, value)
}

func inDictionary(items []DictionaryItem, value string) bool {
	for _, item := range items {
		if item.SystemName == value {
			return true
		}
	}
	return false
}

// Listing - объявление со всеми прикрепленными записями
type Listing struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Title           string
	PropertyType    string
	OwnershipStatus string
	TotalFloors     int
	FloorNumber     int
	TotalArea       float64
	LivingArea      float64
	KitchenArea     float64
	Bedrooms        int
	Bathrooms       int
	ParkingSpots    int
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Amenities      Flags // nil - записи нет
	Infrastructure Flags // nil - записи нет
	Images         []ListingImage
}

// ListingImage - изображение объявления
type ListingImage struct {
	ID        uuid.UUID
	ListingID uuid.UUID
	ImageURL  string
	IsPrimary bool
	CreatedAt time.Time
}

// ListingInput - данные формы создания/полного обновления объявления
type ListingInput struct {
	Title           string
	PropertyType    string
	OwnershipStatus string
	TotalFloors     int
	FloorNumber     int
	TotalArea       float64
	LivingArea      float64
	KitchenArea     float64
	Bedrooms        int
	Bathrooms       int
	ParkingSpots    int
	Description     string
	Amenities       Flags
	Infrastructure  Flags
}

// Validate проверяет обязательные поля и допустимые значения
func (in ListingInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return newValidationError("title", "is required")
	}
	if !IsKnownPropertyType(in.PropertyType) {
		return newValidationError("property_type", "unknown property type "+in.PropertyType)
	}
	if !IsKnownOwnershipStatus(in.OwnershipStatus) {
		return newValidationError("ownership_status", "unknown ownership status "+in.OwnershipStatus)
	}

	ints := []struct {
		field string
		value int
	}{
		{"total_floors", in.TotalFloors},
		{"floor_number", in.FloorNumber},
		{"bedrooms", in.Bedrooms},
		{"bathrooms", in.Bathrooms},
		{"parking_spots", in.ParkingSpots},
	}
	for _, v := range ints {
		if v.value < 0 {
			return newValidationError(v.field, "must not be negative")
		}
	}

	if in.TotalArea <= 0 {
		return newValidationError("total_area", "must be positive")
	}
	if in.LivingArea < 0 || in.LivingArea > in.TotalArea {
		return newValidationError("living_area", "must be between 0 and total_area")
	}
	if in.KitchenArea < 0 || in.KitchenArea > in.TotalArea {
		return newValidationError("kitchen_area", "must be between 0 and total_area")
	}
	if in.TotalFloors > 0 && in.FloorNumber > in.TotalFloors {
		return newValidationError("floor_number", "must not exceed total_floors")
	}

	if err := in.Amenities.ValidateKeys(FlagKindAmenities); err != nil {
		return &ValidationError{Field: "amenities", Message: err.Error()}
	}
	if err := in.Infrastructure.ValidateKeys(FlagKindInfrastructure); err != nil {
		return &ValidationError{Field: "infrastructure", Message: err.Error()}
	}
	return nil
}

// NewListing собирает новое объявление владельца userID.
// Обе записи с флагами создаются всегда, даже если все флаги false.
func NewListing(userID uuid.UUID, in ListingInput) *Listing {
	now := time.Now().UTC()
	l := &Listing{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.Apply(in)
	return l
}

// Apply заменяет все атрибуты объявления данными формы (полное обновление)
func (l *Listing) Apply(in ListingInput) {
	l.Title = strings.TrimSpace(in.Title)
	l.PropertyType = in.PropertyType
	l.OwnershipStatus = in.OwnershipStatus
	l.TotalFloors = in.TotalFloors
	l.FloorNumber = in.FloorNumber
	l.TotalArea = in.TotalArea
	l.LivingArea = in.LivingArea
	l.KitchenArea = in.KitchenArea
	l.Bedrooms = in.Bedrooms
	l.Bathrooms = in.Bathrooms
	l.ParkingSpots = in.ParkingSpots
	l.Description = in.Description
	l.Amenities = in.Amenities.Normalize(FlagKindAmenities)
	l.Infrastructure = in.Infrastructure.Normalize(FlagKindInfrastructure)
}

// IsOwnedBy - объявление принадлежит пользователю
func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && l.UserID == userID
}

// PrimaryImage возвращает основное изображение, если оно есть
func (l *Listing) PrimaryImage() *ListingImage {
	for i := range l.Images {
		if l.Images[i].IsPrimary {
			return &l.Images[i]
		}
	}
	return nil
}

package listings_api_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"listings-service/internal/filterquery"

	"github.com/google/uuid"
)

// StatusError - ответ сервиса с кодом не из 2xx
type StatusError struct {
	StatusCode int
	Message    string
	SignInURL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("listings service returned status %d: %s", e.StatusCode, e.Message)
}

// Unwrap сводит коды ответа к ошибкам домена, чтобы вызывающий мог проверять errors.Is
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrListingNotFound
	}
	return nil
}

// Client - HTTP-клиент REST API объявлений
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// doRequest выполняет запрос с заголовками трассировки и авторизации
func (c *Client) doRequest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// getJSON выполняет GET и декодирует успешный ответ в dst
func (c *Client) getJSON(ctx context.Context, method, url string, dst interface{}) error {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ListingsApiClient",
		"method":    method,
	})
	clientLogger.Debug("Sending request to listings-service", port.Fields{"url": url})

	resp, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		clientLogger.Error("Failed to perform request to listings-service", err, nil)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := readStatusError(resp)
		clientLogger.Error("Received error response from listings-service", statusErr, port.Fields{"status_code": resp.StatusCode})
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		clientLogger.Error("Failed to decode response from listings-service", err, nil)
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func readStatusError(resp *http.Response) *StatusError {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	statusErr := &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(bodyBytes))}

	var apiErr errorResponse
	if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
		statusErr.Message = apiErr.Error
		statusErr.SignInURL = apiErr.SignInURL
	}
	return statusErr
}

// FindListings выполняет поиск по набору фильтров
func (c *Client) FindListings(ctx context.Context, filters domain.FilterSet) (*domain.ListingSearchResult, error) {
	return c.FindListingsByQuery(ctx, filterquery.QueryString(filters))
}

// FindListingsByQuery выполняет поиск по готовой строке запроса, как ее строит контроллер фильтров
func (c *Client) FindListingsByQuery(ctx context.Context, rawQuery string) (*domain.ListingSearchResult, error) {
	url := c.baseURL + "/api/v1/listings"
	if rawQuery = strings.TrimPrefix(rawQuery, "?"); rawQuery != "" {
		url += "?" + rawQuery
	}

	var body listingsResponse
	if err := c.getJSON(ctx, "FindListings", url, &body); err != nil {
		return nil, err
	}

	result := &domain.ListingSearchResult{
		Listings: make([]domain.Listing, 0, len(body.Listings)),
		Count:    body.Count,
		Filters:  toFilterSet(body.Filters),
	}
	for _, dto := range body.Listings {
		listing, err := toDomainListing(dto)
		if err != nil {
			return nil, err
		}
		result.Listings = append(result.Listings, *listing)
	}
	return result, nil
}

// GetListing загружает одно объявление
func (c *Client) GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var body listingResponse
	if err := c.getJSON(ctx, "GetListing", fmt.Sprintf("%s/api/v1/listings/%s", c.baseURL, id), &body); err != nil {
		return nil, err
	}
	return toDomainListing(body)
}

// GetDictionaries загружает справочники (публичный маршрут)
func (c *Client) GetDictionaries(ctx context.Context) (domain.Dictionaries, error) {
	var body dictionariesResponse
	if err := c.getJSON(ctx, "GetDictionaries", c.baseURL+"/api/v1/dictionaries", &body); err != nil {
		return domain.Dictionaries{}, err
	}
	return domain.Dictionaries{
		PropertyTypes:     toDictionaryItems(body.PropertyTypes),
		OwnershipStatuses: toDictionaryItems(body.OwnershipStatuses),
		Amenities:         toDictionaryItems(body.Amenities),
		Infrastructure:    toDictionaryItems(body.Infrastructure),
		AreaMin:           body.AreaMin,
		AreaMax:           body.AreaMax,
		RoomThresholds:    body.RoomThresholds,
	}, nil
}

func toDomainListing(dto listingResponse) (*domain.Listing, error) {
	id, err := uuid.Parse(dto.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing id %q: %w", dto.ID, err)
	}
	userID, err := uuid.Parse(dto.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", dto.UserID, err)
	}

	listing := &domain.Listing{
		ID:              id,
		UserID:          userID,
		Title:           dto.Title,
		PropertyType:    dto.PropertyType,
		OwnershipStatus: dto.OwnershipStatus,
		TotalFloors:     dto.TotalFloors,
		FloorNumber:     dto.FloorNumber,
		TotalArea:       dto.TotalArea,
		LivingArea:      dto.LivingArea,
		KitchenArea:     dto.KitchenArea,
		Bedrooms:        dto.Bedrooms,
		Bathrooms:       dto.Bathrooms,
		ParkingSpots:    dto.ParkingSpots,
		Description:     dto.Description,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
		Amenities:       domain.Flags(dto.Amenities),
		Infrastructure:  domain.Flags(dto.Infrastructure),
	}
	for _, img := range dto.Images {
		imgID, _ := uuid.Parse(img.ID)
		listing.Images = append(listing.Images, domain.ListingImage{
			ID:        imgID,
			ListingID: id,
			ImageURL:  img.ImageURL,
			IsPrimary: img.IsPrimary,
			CreatedAt: img.CreatedAt,
		})
	}
	return listing, nil
}

func toFilterSet(dto filtersResponse) domain.FilterSet {
	return domain.FilterSet{
		Search:         dto.Search,
		PropertyTypes:  dto.PropertyType,
		Bedrooms:       dto.Bedrooms,
		Bathrooms:      dto.Bathrooms,
		MinArea:        dto.MinArea,
		MaxArea:        dto.MaxArea,
		Amenities:      dto.Amenities,
		Infrastructure: dto.Infrastructure,
	}
}

func toDictionaryItems(items []dictionaryItemResponse) []domain.DictionaryItem {
	out := make([]domain.DictionaryItem, len(items))
	for i, item := range items {
		out[i] = domain.DictionaryItem{SystemName: item.SystemName, DisplayName: item.Name}
	}
	return out
}

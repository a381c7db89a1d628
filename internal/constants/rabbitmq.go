package constants

const (
	ListingsExchange     = "listings_exchange"
	ListingsExchangeType = "direct"

	RoutingKeyListingCreated = "listing.created"
	RoutingKeyListingUpdated = "listing.updated"
	RoutingKeyListingDeleted = "listing.deleted"

	EventSchemaVersion = "1.0.0"
)

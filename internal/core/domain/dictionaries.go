package domain

// DictionaryItem - универсальная структура для элемента справочника
type DictionaryItem struct {
	SystemName  string
	DisplayName string
}

// Dictionaries - все справочники, нужные форме и панели фильтров
type Dictionaries struct {
	PropertyTypes     []DictionaryItem
	OwnershipStatuses []DictionaryItem
	Amenities         []DictionaryItem
	Infrastructure    []DictionaryItem
	AreaMin           float64
	AreaMax           float64
	RoomThresholds    []int
}

func flagItems(kind FlagKind) []DictionaryItem {
	defs := kind.Definitions()
	items := make([]DictionaryItem, len(defs))
	for i, d := range defs {
		items[i] = DictionaryItem{SystemName: d.Name, DisplayName: d.Label}
	}
	return items
}

// BuildDictionaries собирает справочники из перечней домена
func BuildDictionaries() Dictionaries {
	return Dictionaries{
		PropertyTypes:     append([]DictionaryItem(nil), PropertyTypes...),
		OwnershipStatuses: append([]DictionaryItem(nil), OwnershipStatuses...),
		Amenities:         flagItems(FlagKindAmenities),
		Infrastructure:    flagItems(FlagKindInfrastructure),
		AreaMin:           DefaultMinArea,
		AreaMax:           DefaultMaxArea,
		RoomThresholds:    []int{1, 2, 3, 4, 5},
	}
}

package domain

import "fmt"

// FlagKind - тип записи с флагами, прикрепленной к объявлению
type FlagKind string

const (
	FlagKindAmenities      FlagKind = "amenities"
	FlagKindInfrastructure FlagKind = "infrastructure"
)

// FlagDefinition - системное имя флага и его подпись для интерфейса
type FlagDefinition struct {
	Name  string
	Label string
}

// Порядок важен: в этом порядке колонки идут в таблицах и в справочниках
var AmenityDefinitions = []FlagDefinition{
	{Name: "tv_set", Label: "TV set"},
	{Name: "air_conditioning", Label: "Air conditioning"},
	{Name: "drying_machine", Label: "Drying machine"},
	{Name: "fireplace", Label: "Fireplace"},
	{Name: "security_cameras", Label: "Security cameras"},
	{Name: "washing_machine", Label: "Washing machine"},
	{Name: "separate_workplace", Label: "Separate workplace"},
	{Name: "closet", Label: "Closet"},
	{Name: "shower_cabin", Label: "Shower cabin"},
	{Name: "balcony", Label: "Balcony"},
	{Name: "kitchen", Label: "Kitchen"},
	{Name: "refrigerator", Label: "Refrigerator"},
	{Name: "patio", Label: "Patio"},
	{Name: "whirlpool", Label: "Whirlpool"},
	{Name: "bar", Label: "Bar"},
}

var InfrastructureDefinitions = []FlagDefinition{
	{Name: "schools", Label: "Schools"},
	{Name: "kindergarten", Label: "Kindergarten"},
	{Name: "underground", Label: "Underground"},
	{Name: "cinema_theater", Label: "Cinema / theater"},
	{Name: "parking_lot", Label: "Parking lot"},
	{Name: "sports_center", Label: "Sports center"},
	{Name: "beauty_salon", Label: "Beauty salon"},
	{Name: "restaurant_cafe", Label: "Restaurant / cafe"},
	{Name: "shop", Label: "Shop"},
	{Name: "shopping_center", Label: "Shopping center"},
	{Name: "bank", Label: "Bank"},
	{Name: "park_green_area", Label: "Park / green area"},
}

var (
	amenityNames        = namesSet(AmenityDefinitions)
	infrastructureNames = namesSet(InfrastructureDefinitions)
)

func namesSet(defs []FlagDefinition) map[string]struct{} {
	set := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		set[d.Name] = struct{}{}
	}
	return set
}

// Definitions возвращает перечень флагов для данного типа записи
func (k FlagKind) Definitions() []FlagDefinition {
	switch k {
	case FlagKindAmenities:
		return AmenityDefinitions
	case FlagKindInfrastructure:
		return InfrastructureDefinitions
	}
	return nil
}

// Names - только системные имена, в порядке колонок
func (k FlagKind) Names() []string {
	defs := k.Definitions()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// IsKnown проверяет, входит ли имя в перечень
func (k FlagKind) IsKnown(name string) bool {
	switch k {
	case FlagKindAmenities:
		_, ok := amenityNames[name]
		return ok
	case FlagKindInfrastructure:
		_, ok := infrastructureNames[name]
		return ok
	}
	return false
}

// Validate возвращает ErrUnknownFlag для первого имени вне перечня
func (k FlagKind) Validate(names []string) error {
	for _, name := range names {
		if !k.IsKnown(name) {
			return fmt.Errorf("%w: %s %q", ErrUnknownFlag, k, name)
		}
	}
	return nil
}

// Flags - запись с булевыми флагами (удобства или инфраструктура).
// nil означает, что записи у объявления нет вообще.
type Flags map[string]bool

// Has - true, только если запись существует и флаг установлен
func (f Flags) Has(name string) bool {
	if f == nil {
		return false
	}
	return f[name]
}

// HasAll - все запрошенные флаги установлены. Отсутствующая запись не проходит
// ни одно ограничение, но пустой список ограничений проходит всегда.
func (f Flags) HasAll(names []string) bool {
	for _, name := range names {
		if !f.Has(name) {
			return false
		}
	}
	return true
}

// Normalize возвращает полную запись: все флаги из перечня, отсутствующие = false
func (f Flags) Normalize(kind FlagKind) Flags {
	out := make(Flags, len(kind.Definitions()))
	for _, name := range kind.Names() {
		out[name] = f[name]
	}
	return out
}

// ValidateKeys проверяет, что в записи нет флагов вне перечня
func (f Flags) ValidateKeys(kind FlagKind) error {
	for name := range f {
		if !kind.IsKnown(name) {
			return fmt.Errorf("%w: %s %q", ErrUnknownFlag, kind, name)
		}
	}
	return nil
}

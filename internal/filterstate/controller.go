// Package filterstate - клиентский контроллер панели фильтров: хранит локальную копию
// набора, переключает значения и после паузы во вводе переходит на адрес с новыми фильтрами.
package filterstate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"listings-service/internal/filterquery"
)

// DefaultDebounce - пауза после последнего изменения перед переходом
const DefaultDebounce = 500 * time.Millisecond

var ErrUnknownField = errors.New("unknown filter field")

// Navigator переходит на адрес с указанной query-строкой (без '?')
type Navigator interface {
	Navigate(ctx context.Context, query string) error
}

// NavigatorFunc позволяет использовать обычную функцию как Navigator
type NavigatorFunc func(ctx context.Context, query string) error

func (f NavigatorFunc) Navigate(ctx context.Context, query string) error {
	return f(ctx, query)
}

type Option func(*Controller)

// WithDebounce задает паузу. Ноль отключает отложенные переходы: остается только Apply.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithContext задает контекст для отложенных переходов
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.baseCtx = ctx }
}

type Controller struct {
	mu         sync.Mutex
	filters    domain.FilterSet
	navigator  Navigator
	delay      time.Duration
	baseCtx    context.Context
	timer      *time.Timer
	generation uint64
	closed     bool

	// отменяет контекст последнего отложенного перехода, в том числе уже начатого
	cancelInFlight context.CancelFunc
}

// New создает контроллер с пустым набором фильтров
func New(navigator Navigator, opts ...Option) *Controller {
	return NewFromInitial(domain.FilterSet{}, navigator, opts...)
}

// NewFromInitial создает контроллер с начальным набором, обычно разобранным из текущего адреса.
// Начальное состояние не применяется: переход планируют только последующие изменения.
func NewFromInitial(initial domain.FilterSet, navigator Navigator, opts ...Option) *Controller {
	c := &Controller{
		filters:   initial.Normalize(),
		navigator: navigator,
		delay:     DefaultDebounce,
		baseCtx:   context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Toggle добавляет значение в множество или убирает его, если оно там уже есть.
// Удаление последнего значения снимает фильтр целиком.
func (c *Controller) Toggle(field domain.FilterField, value string) error {
	// в наборе хранятся уже обрезанные значения
	value = strings.TrimSpace(value)
	return c.update(func(f *domain.FilterSet) error {
		switch field {
		case domain.FieldPropertyType:
			f.PropertyTypes = toggle(f.PropertyTypes, value)
		case domain.FieldAmenities:
			f.Amenities = toggle(f.Amenities, value)
		case domain.FieldInfrastructure:
			f.Infrastructure = toggle(f.Infrastructure, value)
		case domain.FieldBedrooms, domain.FieldBathrooms:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidFilter, field, value)
			}
			if field == domain.FieldBedrooms {
				f.Bedrooms = toggle(f.Bedrooms, n)
			} else {
				f.Bathrooms = toggle(f.Bathrooms, n)
			}
		default:
			return fmt.Errorf("%w: %s cannot be toggled", ErrUnknownField, field)
		}
		return nil
	})
}

// SetSearch задает поисковую строку. Пустая строка снимает фильтр.
func (c *Controller) SetSearch(term string) {
	_ = c.update(func(f *domain.FilterSet) error {
		f.Search = term
		return nil
	})
}

// SetArea задает положение слайдера площади. Крайние положения означают "без ограничения".
func (c *Controller) SetArea(minArea, maxArea float64) {
	_ = c.update(func(f *domain.FilterSet) error {
		f.MinArea = &minArea
		f.MaxArea = &maxArea
		return nil
	})
}

// Area возвращает положение слайдера с учетом значений по умолчанию
func (c *Controller) Area() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	minArea, maxArea := domain.DefaultMinArea, domain.DefaultMaxArea
	if c.filters.MinArea != nil {
		minArea = *c.filters.MinArea
	}
	if c.filters.MaxArea != nil {
		maxArea = *c.filters.MaxArea
	}
	return minArea, maxArea
}

// Remove убирает одно значение фильтра (крестик на бейдже)
func (c *Controller) Remove(field domain.FilterField, value string) error {
	value = strings.TrimSpace(value)
	return c.update(func(f *domain.FilterSet) error {
		switch field {
		case domain.FieldPropertyType:
			f.PropertyTypes = without(f.PropertyTypes, value)
		case domain.FieldAmenities:
			f.Amenities = without(f.Amenities, value)
		case domain.FieldInfrastructure:
			f.Infrastructure = without(f.Infrastructure, value)
		case domain.FieldBedrooms, domain.FieldBathrooms:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidFilter, field, value)
			}
			if field == domain.FieldBedrooms {
				f.Bedrooms = without(f.Bedrooms, n)
			} else {
				f.Bathrooms = without(f.Bathrooms, n)
			}
		default:
			return clearField(f, field)
		}
		return nil
	})
}

// RemoveField снимает фильтр целиком
func (c *Controller) RemoveField(field domain.FilterField) error {
	return c.update(func(f *domain.FilterSet) error {
		return clearField(f, field)
	})
}

// Reset возвращает все фильтры к значениям по умолчанию
func (c *Controller) Reset() {
	_ = c.update(func(f *domain.FilterSet) error {
		*f = domain.FilterSet{}
		return nil
	})
}

// Current возвращает копию текущего набора
func (c *Controller) Current() domain.FilterSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Clone()
}

func (c *Controller) QueryString() string {
	return filterquery.QueryString(c.Current())
}

// ActiveCount - число заполненных фильтров для бейджа
func (c *Controller) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.ActiveCount()
}

// Apply сразу переходит на адрес с текущими фильтрами и отменяет отложенный переход
func (c *Controller) Apply(ctx context.Context) error {
	c.mu.Lock()
	c.cancelPendingLocked()
	query := filterquery.QueryString(c.filters)
	c.mu.Unlock()

	return c.navigator.Navigate(ctx, query)
}

// Close отменяет отложенный переход. После Close изменения больше не планируют переходов.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.closed = true
}

func (c *Controller) update(change func(f *domain.FilterSet) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.filters.Clone()
	if err := change(&next); err != nil {
		return err
	}
	c.filters = next.Normalize()
	c.scheduleLocked()
	return nil
}

// scheduleLocked перезапускает таймер. Срабатывает только последний запланированный переход.
func (c *Controller) scheduleLocked() {
	c.cancelPendingLocked()
	if c.closed || c.delay <= 0 {
		return
	}
	gen := c.generation
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancelInFlight = cancel
	c.timer = time.AfterFunc(c.delay, func() { c.fire(ctx, gen) })
}

// cancelPendingLocked останавливает таймер и прерывает устаревший переход, если он уже идет
func (c *Controller) cancelPendingLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancelInFlight != nil {
		c.cancelInFlight()
		c.cancelInFlight = nil
	}
}

func (c *Controller) fire(ctx context.Context, gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.closed {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	query := filterquery.QueryString(c.filters)
	c.mu.Unlock()

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "FilterStateController",
		"query":     query,
	})
	if err := c.navigator.Navigate(ctx, query); err != nil {
		if ctx.Err() != nil {
			logger.Debug("Stale navigation cancelled", nil)
			return
		}
		logger.Error("Debounced navigation failed", err, nil)
		return
	}
	logger.Debug("Debounced navigation done", nil)
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	amenitiesTable      = "property_amenities"
	infrastructureTable = "property_infrastructure"

	foreignKeyViolation = "23503"
)

const listingColumns = `pl.id, pl.user_id, pl.title, pl.property_type, pl.ownership_status,
	pl.total_floors, pl.floor_number, pl.total_area, pl.living_area, pl.kitchen_area,
	pl.bedrooms, pl.bathrooms, pl.parking_spots, pl.description, pl.created_at, pl.updated_at`

// querier - общее у пула и транзакции
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresListingRepository реализует ListingStoragePort для PostgreSQL
type PostgresListingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresListingRepository(pool *pgxpool.Pool) (*PostgresListingRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresListingRepository{pool: pool}, nil
}

// FindListings выбирает все объявления под ограничения, новые первыми
func (r *PostgresListingRepository) FindListings(ctx context.Context, query domain.ListingQuery) ([]domain.Listing, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresListingRepository",
		"method":    "FindListings",
	})

	whereClause, args := applyFilters(query)
	listings, err := r.selectListings(ctx, r.pool, whereClause, args)
	if err != nil {
		repoLogger.Error("Failed to find listings", err, port.Fields{"where": whereClause})
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}

	repoLogger.Debug("Listings selected", port.Fields{"count": len(listings)})
	return listings, nil
}

func (r *PostgresListingRepository) GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	listings, err := r.selectListings(ctx, r.pool, "WHERE pl.id = $1", []interface{}{id})
	if err != nil {
		return nil, fmt.Errorf("failed to get listing %s: %w", id, err)
	}
	if len(listings) == 0 {
		return nil, domain.ErrListingNotFound
	}
	return &listings[0], nil
}

// CreateListing вставляет объявление и обе записи с флагами в одной транзакции
func (r *PostgresListingRepository) CreateListing(ctx context.Context, listing *domain.Listing) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresListingRepository",
		"method":     "CreateListing",
		"listing_id": listing.ID.String(),
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO property_listings (
			id, user_id, title, property_type, ownership_status, total_floors, floor_number,
			total_area, living_area, kitchen_area, bedrooms, bathrooms, parking_spots,
			description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		listing.ID, listing.UserID, listing.Title, listing.PropertyType, listing.OwnershipStatus,
		listing.TotalFloors, listing.FloorNumber, listing.TotalArea, listing.LivingArea, listing.KitchenArea,
		listing.Bedrooms, listing.Bathrooms, listing.ParkingSpots, listing.Description,
		listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		repoLogger.Error("Failed to insert listing", err, nil)
		return fmt.Errorf("failed to insert listing: %w", err)
	}

	if err := upsertFlags(ctx, tx, amenitiesTable, domain.FlagKindAmenities, listing.ID, listing.Amenities); err != nil {
		repoLogger.Error("Failed to insert amenities", err, nil)
		return err
	}
	if err := upsertFlags(ctx, tx, infrastructureTable, domain.FlagKindInfrastructure, listing.ID, listing.Infrastructure); err != nil {
		repoLogger.Error("Failed to insert infrastructure", err, nil)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Listing created", nil)
	return nil
}

// UpdateListing заменяет все поля объявления и обе записи с флагами
func (r *PostgresListingRepository) UpdateListing(ctx context.Context, listing *domain.Listing) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresListingRepository",
		"method":     "UpdateListing",
		"listing_id": listing.ID.String(),
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, `
		UPDATE property_listings SET
			title = $2, property_type = $3, ownership_status = $4, total_floors = $5,
			floor_number = $6, total_area = $7, living_area = $8, kitchen_area = $9,
			bedrooms = $10, bathrooms = $11, parking_spots = $12, description = $13,
			updated_at = $14
		WHERE id = $1`,
		listing.ID, listing.Title, listing.PropertyType, listing.OwnershipStatus, listing.TotalFloors,
		listing.FloorNumber, listing.TotalArea, listing.LivingArea, listing.KitchenArea,
		listing.Bedrooms, listing.Bathrooms, listing.ParkingSpots, listing.Description,
		listing.UpdatedAt,
	)
	if err != nil {
		repoLogger.Error("Failed to update listing", err, nil)
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}

	if err := upsertFlags(ctx, tx, amenitiesTable, domain.FlagKindAmenities, listing.ID, listing.Amenities); err != nil {
		repoLogger.Error("Failed to update amenities", err, nil)
		return err
	}
	if err := upsertFlags(ctx, tx, infrastructureTable, domain.FlagKindInfrastructure, listing.ID, listing.Infrastructure); err != nil {
		repoLogger.Error("Failed to update infrastructure", err, nil)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteListing удаляет объявление, флаги и изображения удаляет ON DELETE CASCADE
func (r *PostgresListingRepository) DeleteListing(ctx context.Context, id uuid.UUID) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresListingRepository",
		"method":     "DeleteListing",
		"listing_id": id.String(),
	})

	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM property_listings WHERE id = $1`, id)
	if err != nil {
		repoLogger.Error("Failed to delete listing", err, nil)
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}

	repoLogger.Debug("Listing deleted", nil)
	return nil
}

// AddImage добавляет изображение. Если оно основное, прежнее основное изображение
// перестает им быть в той же транзакции.
func (r *PostgresListingRepository) AddImage(ctx context.Context, image domain.ListingImage) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresListingRepository",
		"method":     "AddImage",
		"listing_id": image.ListingID.String(),
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if image.IsPrimary {
		if _, err := tx.Exec(ctx,
			`UPDATE property_images SET is_primary = false WHERE property_id = $1 AND is_primary`,
			image.ListingID,
		); err != nil {
			repoLogger.Error("Failed to demote primary image", err, nil)
			return fmt.Errorf("failed to demote primary image: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO property_images (id, property_id, image_url, is_primary, created_at) VALUES ($1, $2, $3, $4, $5)`,
		image.ID, image.ListingID, image.ImageURL, image.IsPrimary, image.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return domain.ErrListingNotFound
		}
		repoLogger.Error("Failed to insert image", err, nil)
		return fmt.Errorf("failed to insert image: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// selectListings выбирает объявления с флагами (LEFT JOIN: записи может не быть)
// и отдельным запросом подгружает изображения.
func (r *PostgresListingRepository) selectListings(ctx context.Context, q querier, whereClause string, args []interface{}) ([]domain.Listing, error) {
	amenityNames := domain.FlagKindAmenities.Names()
	infraNames := domain.FlagKindInfrastructure.Names()

	var sql strings.Builder
	sql.WriteString("SELECT ")
	sql.WriteString(listingColumns)
	sql.WriteString(", pa.property_id IS NOT NULL")
	for _, name := range amenityNames {
		sql.WriteString(", pa." + name)
	}
	sql.WriteString(", pi.property_id IS NOT NULL")
	for _, name := range infraNames {
		sql.WriteString(", pi." + name)
	}
	sql.WriteString(`
		FROM property_listings pl
		LEFT JOIN property_amenities pa ON pa.property_id = pl.id
		LEFT JOIN property_infrastructure pi ON pi.property_id = pl.id `)
	sql.WriteString(whereClause)
	sql.WriteString(" ORDER BY pl.created_at DESC, pl.id DESC")

	rows, err := q.Query(ctx, sql.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		var l domain.Listing
		var hasAmenities, hasInfra bool
		amenityValues := make([]*bool, len(amenityNames))
		infraValues := make([]*bool, len(infraNames))

		dest := []interface{}{
			&l.ID, &l.UserID, &l.Title, &l.PropertyType, &l.OwnershipStatus,
			&l.TotalFloors, &l.FloorNumber, &l.TotalArea, &l.LivingArea, &l.KitchenArea,
			&l.Bedrooms, &l.Bathrooms, &l.ParkingSpots, &l.Description, &l.CreatedAt, &l.UpdatedAt,
			&hasAmenities,
		}
		for i := range amenityValues {
			dest = append(dest, &amenityValues[i])
		}
		dest = append(dest, &hasInfra)
		for i := range infraValues {
			dest = append(dest, &infraValues[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		if hasAmenities {
			l.Amenities = flagsFromColumns(amenityNames, amenityValues)
		}
		if hasInfra {
			l.Infrastructure = flagsFromColumns(infraNames, infraValues)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	if err := loadImages(ctx, q, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func flagsFromColumns(names []string, values []*bool) domain.Flags {
	flags := make(domain.Flags, len(names))
	for i, name := range names {
		flags[name] = values[i] != nil && *values[i]
	}
	return flags
}

// loadImages заполняет Images у переданных объявлений, основное изображение первым
func loadImages(ctx context.Context, q querier, listings []domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(listings))
	index := make(map[uuid.UUID]int, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
		index[l.ID] = i
	}

	rows, err := q.Query(ctx, `
		SELECT id, property_id, image_url, is_primary, created_at
		FROM property_images
		WHERE property_id = ANY($1)
		ORDER BY is_primary DESC, created_at ASC, id ASC`, ids)
	if err != nil {
		return fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.ListingImage
		if err := rows.Scan(&img.ID, &img.ListingID, &img.ImageURL, &img.IsPrimary, &img.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan image: %w", err)
		}
		if i, ok := index[img.ListingID]; ok {
			listings[i].Images = append(listings[i].Images, img)
		}
	}
	return rows.Err()
}

// upsertFlags записывает полную запись флагов: отсутствующие в карте флаги сохраняются как false
func upsertFlags(ctx context.Context, q querier, table string, kind domain.FlagKind, listingID uuid.UUID, flags domain.Flags) error {
	names := kind.Names()

	columns := make([]string, 0, len(names)+1)
	placeholders := make([]string, 0, len(names)+1)
	updates := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names)+1)

	columns = append(columns, "property_id")
	placeholders = append(placeholders, "$1")
	args = append(args, listingID)
	for i, name := range names {
		columns = append(columns, name)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", name, name))
		args = append(args, flags.Has(name))
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (property_id) DO UPDATE SET %s",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "),
	)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to save %s: %w", kind, err)
	}
	return nil
}

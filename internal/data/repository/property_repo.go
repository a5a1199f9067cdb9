package repository

import (
	"context"
	"errors"
	"fmt"

	"rental-marketplace/internal/data/entity"
	"rental-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PropertyFilter narrows the public listing. Nil and empty fields are ignored.
type PropertyFilter struct {
	Type         string
	Location     string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	MinBathrooms *int
	Search       string
}

type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Property, error)
	FindPublic(ctx context.Context, filter PropertyFilter, limit, offset int) ([]*entity.Property, error)
	CountPublic(ctx context.Context, filter PropertyFilter) (int64, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Property, error)
	FindPending(ctx context.Context, limit, offset int) ([]*entity.Property, error)
	CountPending(ctx context.Context) (int64, error)
	Update(ctx context.Context, property *entity.Property) error
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	RatingsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.PropertyRating, error)
}

type propertyRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPropertyRepository(db database.Querier, log *zap.Logger) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: log.With(zap.String("repository", "property")),
	}
}

const propertyColumns = `p.id, p.owner_id, p.title, p.description, p.price, p.location, p.address, p.type,
	p.images, p.amenities, p.bedrooms, p.bathrooms, p.max_guests, p.is_approved, p.is_active,
	p.latitude, p.longitude, p.created_at, p.updated_at`

func scanProperty(row pgx.Row) (*entity.Property, error) {
	var p entity.Property
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Location,
		&p.Address,
		&p.Type,
		&p.Images,
		&p.Amenities,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.MaxGuests,
		&p.IsApproved,
		&p.IsActive,
		&p.Latitude,
		&p.Longitude,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propertyRepository) collect(rows pgx.Rows) ([]*entity.Property, error) {
	defer rows.Close()

	var properties []*entity.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			r.log.Error("Failed to scan property row", zap.Error(err))
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate property rows: %w", err)
	}
	return properties, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *entity.Property) error {
	query := `
		INSERT INTO properties (id, owner_id, title, description, price, location, address, type,
		                        images, amenities, bedrooms, bathrooms, max_guests, is_approved, is_active,
		                        latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.OwnerID,
		p.Title,
		p.Description,
		p.Price,
		p.Location,
		p.Address,
		p.Type,
		p.Images,
		p.Amenities,
		p.Bedrooms,
		p.Bathrooms,
		p.MaxGuests,
		p.IsApproved,
		p.IsActive,
		p.Latitude,
		p.Longitude,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create property",
			zap.Error(err),
			zap.String("owner_id", p.OwnerID.String()),
		)
		return fmt.Errorf("create property for owner %s: %w", p.OwnerID.String(), err)
	}

	return nil
}

func (r *propertyRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Property, error) {
	p, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find property by ID",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return nil, fmt.Errorf("find property by ID %s: %w", id.String(), err)
	}
	return p, nil
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	return r.findOne(ctx, `SELECT `+propertyColumns+` FROM properties p WHERE p.id = $1`, id)
}

// FindByIDForUpdate locks the property row until the surrounding transaction
// ends, serializing bookings against the same property.
func (r *propertyRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	return r.findOne(ctx, `SELECT `+propertyColumns+` FROM properties p WHERE p.id = $1 FOR UPDATE`, id)
}

func (r *propertyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Property, error) {
	result := make(map[uuid.UUID]*entity.Property, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+propertyColumns+` FROM properties p WHERE p.id = ANY($1)`, ids)
	if err != nil {
		r.log.Error("Failed to find properties by IDs", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find properties by IDs: %w", err)
	}

	properties, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range properties {
		result[p.ID] = p
	}
	return result, nil
}

func publicWhere(filter PropertyFilter) *whereClause {
	w := &whereClause{}
	w.addRaw("p.is_approved = TRUE")
	w.addRaw("p.is_active = TRUE")
	if filter.Type != "" {
		w.add("p.type = ?", filter.Type)
	}
	if filter.Location != "" {
		w.add("p.location ILIKE ?", escapeLike(filter.Location))
	}
	if filter.MinPrice != nil {
		w.add("p.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		w.add("p.price <= ?", *filter.MaxPrice)
	}
	if filter.MinBedrooms != nil {
		w.add("p.bedrooms >= ?", *filter.MinBedrooms)
	}
	if filter.MinBathrooms != nil {
		w.add("p.bathrooms >= ?", *filter.MinBathrooms)
	}
	if filter.Search != "" {
		w.add("(p.title ILIKE ? OR p.description ILIKE ? OR p.location ILIKE ?)", escapeLike(filter.Search))
	}
	return w
}

// FindPublic lists approved, active properties matching filter, newest first.
func (r *propertyRepository) FindPublic(ctx context.Context, filter PropertyFilter, limit, offset int) ([]*entity.Property, error) {
	w := publicWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM properties p %s ORDER BY p.created_at DESC LIMIT %s OFFSET %s`,
		propertyColumns, w.String(), w.next(limit), w.next(offset))

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		r.log.Error("Failed to find public properties",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find public properties limit %d offset %d: %w", limit, offset, err)
	}
	return r.collect(rows)
}

func (r *propertyRepository) CountPublic(ctx context.Context, filter PropertyFilter) (int64, error) {
	w := publicWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM properties p `+w.String(), w.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count public properties", zap.Error(err))
		return 0, fmt.Errorf("count public properties: %w", err)
	}
	return count, nil
}

func (r *propertyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.owner_id = $1 ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("Failed to find properties by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return nil, fmt.Errorf("find properties by owner %s: %w", ownerID.String(), err)
	}
	return r.collect(rows)
}

// FindPending lists properties awaiting approval, oldest first.
func (r *propertyRepository) FindPending(ctx context.Context, limit, offset int) ([]*entity.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties p
		WHERE p.is_approved = FALSE
		ORDER BY p.created_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find pending properties", zap.Error(err))
		return nil, fmt.Errorf("find pending properties: %w", err)
	}
	return r.collect(rows)
}

func (r *propertyRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM properties WHERE is_approved = FALSE`).Scan(&count); err != nil {
		r.log.Error("Failed to count pending properties", zap.Error(err))
		return 0, fmt.Errorf("count pending properties: %w", err)
	}
	return count, nil
}

// Update writes every editable column. Approval is changed only through SetApproved.
func (r *propertyRepository) Update(ctx context.Context, p *entity.Property) error {
	query := `
		UPDATE properties
		SET title = $2, description = $3, price = $4, location = $5, address = $6, type = $7,
		    images = $8, amenities = $9, bedrooms = $10, bathrooms = $11, max_guests = $12,
		    is_active = $13, latitude = $14, longitude = $15, updated_at = $16
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.Price,
		p.Location,
		p.Address,
		p.Type,
		p.Images,
		p.Amenities,
		p.Bedrooms,
		p.Bathrooms,
		p.MaxGuests,
		p.IsActive,
		p.Latitude,
		p.Longitude,
		p.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update property",
			zap.Error(err),
			zap.String("property_id", p.ID.String()),
		)
		return fmt.Errorf("update property %s: %w", p.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("property %s not found", p.ID.String())
	}
	return nil
}

func (r *propertyRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	result, err := r.db.Exec(ctx, `UPDATE properties SET is_approved = $2, updated_at = NOW() WHERE id = $1`, id, approved)
	if err != nil {
		r.log.Error("Failed to set property approval",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return fmt.Errorf("set property %s approved=%t: %w", id.String(), approved, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("property %s not found", id.String())
	}
	return nil
}

// Delete removes the property. Bookings, payments and reviews cascade.
func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete property",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return fmt.Errorf("delete property %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("property %s not found", id.String())
	}

	r.log.Info("Property deleted", zap.String("property_id", id.String()))
	return nil
}

func (r *propertyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM properties`).Scan(&count); err != nil {
		r.log.Error("Failed to count properties", zap.Error(err))
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return count, nil
}

// RatingsFor aggregates reviews per property. Properties without reviews
// are absent from the result.
func (r *propertyRepository) RatingsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.PropertyRating, error) {
	result := make(map[uuid.UUID]entity.PropertyRating, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT property_id, AVG(rating)::float8, COUNT(*)
		FROM reviews
		WHERE property_id = ANY($1)
		GROUP BY property_id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to aggregate property ratings", zap.Error(err))
		return nil, fmt.Errorf("aggregate property ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rating entity.PropertyRating
		if err := rows.Scan(&rating.PropertyID, &rating.AvgRating, &rating.ReviewCount); err != nil {
			r.log.Error("Failed to scan rating row", zap.Error(err))
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		result[rating.PropertyID] = rating
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}
	return result, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/business-management-api/internal/database"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter is an equality conjunction keyed by column name.
type Filter map[string]interface{}

// Repository is the generic GORM data access contract every entity repository
// specializes.
type Repository[T any] struct {
	db     *gorm.DB
	object string
}

// NewRepository creates a Repository; object names the entity in errors.
func NewRepository[T any](db *gorm.DB, object string) *Repository[T] {
	return &Repository[T]{db: db, object: object}
}

// DB returns a session bound to ctx.
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func preloaded(db *gorm.DB, preload []string) *gorm.DB {
	for _, p := range preload {
		db = db.Preload(p)
	}
	return db
}

// Get finds an entity by ID with optional preloading
func (r *Repository[T]) Get(ctx context.Context, id uint64, preload ...string) (*T, error) {
	var entity T
	if err := preloaded(r.DB(ctx), preload).First(&entity, id).Error; err != nil {
		return nil, r.translate(err)
	}
	return &entity, nil
}

// FindOne returns the first entity matching every filter column.
func (r *Repository[T]) FindOne(ctx context.Context, filter Filter, preload ...string) (*T, error) {
	var entity T
	if err := preloaded(r.DB(ctx), preload).Where(map[string]interface{}(filter)).First(&entity).Error; err != nil {
		return nil, r.translate(err)
	}
	return &entity, nil
}

// FindIn returns entities whose field is one of values.
func (r *Repository[T]) FindIn(ctx context.Context, field string, values interface{}, preload ...string) ([]T, error) {
	column, err := r.column(field)
	if err != nil {
		return nil, err
	}
	var entities []T
	query := preloaded(r.DB(ctx), preload).Where(fmt.Sprintf("%s IN ?", column), values).Order("id")
	if err := query.Find(&entities).Error; err != nil {
		return nil, r.translate(err)
	}
	return entities, nil
}

// List returns one page of entities matching filter and the total count.
func (r *Repository[T]) List(ctx context.Context, filter Filter, params utils.ListParams, preload ...string) ([]T, int64, error) {
	sortColumn, err := r.column(params.SortBy)
	if err != nil {
		return nil, 0, err
	}

	filtered := func() *gorm.DB {
		query := r.DB(ctx).Model(new(T))
		if len(filter) > 0 {
			query = query.Where(map[string]interface{}(filter))
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, r.translate(err)
	}

	var entities []T
	err = preloaded(filtered(), preload).
		Scopes(database.Sort(sortColumn, params.Desc), database.Paginate(params)).
		Find(&entities).Error
	if err != nil {
		return nil, 0, r.translate(err)
	}
	return entities, total, nil
}

// Create inserts entity without touching its associations.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.translate(r.DB(ctx).Omit(clause.Associations).Create(entity).Error)
}

// Update applies a partial field set to the entity with the given ID and
// returns the stored result.
func (r *Repository[T]) Update(ctx context.Context, id uint64, fields map[string]interface{}) (*T, error) {
	entity, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return entity, nil
	}
	if err := r.DB(ctx).Model(entity).Updates(fields).Error; err != nil {
		return nil, r.translate(err)
	}
	return r.Get(ctx, id)
}

// Delete removes the entity with the given ID.
func (r *Repository[T]) Delete(ctx context.Context, id uint64) error {
	result := r.DB(ctx).Delete(new(T), id)
	if result.Error != nil {
		return r.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return apierrors.NewNotFound(r.object)
	}
	return nil
}

// column maps a struct field or column name onto a known DB column so that
// caller-supplied sort keys never reach SQL unchecked.
func (r *Repository[T]) column(field string) (string, error) {
	stmt := &gorm.Statement{DB: r.db}
	if err := stmt.Parse(new(T)); err != nil {
		return "", fmt.Errorf("failed to parse %s schema: %w", r.object, err)
	}
	if f := stmt.Schema.LookUpField(field); f != nil && f.DBName != "" {
		return f.DBName, nil
	}
	return "", apierrors.NewInvalidData(fmt.Sprintf("Unknown %s field %q", strings.ToLower(r.object), field))
}

func (r *Repository[T]) translate(err error) error {
	return translate(err, r.object)
}

func translate(err error, object string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierrors.NewNotFound(object)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apierrors.NewConflict(fmt.Sprintf("%s with these values already exists", object), err)
	default:
		var domainErr *apierrors.Error
		if errors.As(err, &domainErr) {
			return err
		}
		return fmt.Errorf("%s query failed: %w", strings.ToLower(object), err)
	}
}

package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/domain/query"
)

// repository implements domain.Repository over the session of its unit of
// work. Reads go straight to the session; writes are staged.
type repository[T any, K comparable] struct {
	uow          *UnitOfWork
	pk           string
	defaultOrder query.Order
	// scope runs on every read that materializes entities, typically to
	// preload associations.
	scope func(*gorm.DB) *gorm.DB
}

func newRepository[T any, K comparable](uow *UnitOfWork, pk string) *repository[T, K] {
	return &repository[T, K]{uow: uow, pk: pk, defaultOrder: query.DefaultOrder}
}

func (r *repository[T, K]) base(ctx context.Context) *gorm.DB {
	return r.uow.db.WithContext(ctx).Model(new(T))
}

func (r *repository[T, K]) reads(ctx context.Context) *gorm.DB {
	q := r.uow.db.WithContext(ctx)
	if r.scope != nil {
		q = q.Scopes(r.scope)
	}
	return q
}

func where(q *gorm.DB, p query.Predicate) *gorm.DB {
	if p.Empty() {
		return q
	}
	return q.Where(p.SQL, p.Args...)
}

func orderBy(q *gorm.DB, o query.Order) *gorm.DB {
	return q.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
}

func (r *repository[T, K]) GetByID(ctx context.Context, id K) (*T, error) {
	var t T
	if err := r.reads(ctx).First(&t, r.pk+" = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository[T, K]) GetAll(ctx context.Context) ([]T, error) {
	return r.Find(ctx, query.Predicate{})
}

func (r *repository[T, K]) Find(ctx context.Context, p query.Predicate) ([]T, error) {
	list := []T{}
	if err := orderBy(where(r.reads(ctx), p), r.defaultOrder).Order(r.pk).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository[T, K]) FirstOrDefault(ctx context.Context, p query.Predicate) (*T, error) {
	var t T
	if err := where(r.reads(ctx), p).Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository[T, K]) Any(ctx context.Context, p query.Predicate) (bool, error) {
	n, err := r.Count(ctx, p)
	return n > 0, err
}

func (r *repository[T, K]) Count(ctx context.Context, p query.Predicate) (int64, error) {
	var n int64
	if err := where(r.base(ctx), p).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *repository[T, K]) GetPaged(ctx context.Context, page query.Page, filter query.Predicate, order *query.Order) ([]T, int64, error) {
	var total int64
	if err := where(r.base(ctx), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	o := r.defaultOrder
	if order != nil {
		o = *order
	}
	list := []T{}
	q := orderBy(where(r.reads(ctx), filter), o).Order(r.pk)
	if err := q.Offset(page.Offset()).Limit(page.Size).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository[T, K]) Add(entity *T) {
	r.uow.stage(entryAdded, entity, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(entity).Error
	})
}

func (r *repository[T, K]) Update(entity *T) {
	r.uow.stage(entryModified, entity, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(entity).Error
	})
}

func (r *repository[T, K]) Remove(id K) {
	r.uow.stage(entryDeleted, nil, func(tx *gorm.DB) error {
		return tx.Where(r.pk+" = ?", id).Delete(new(T)).Error
	})
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database/token"
	"philcali.me/groceries/internal/exceptions"
)

// RepositoryService implements data.Repository for any table whose rows are
// addressed by a single id column.
type RepositoryService[T interface{}, I interface{}] struct {
	DB             *gorm.DB
	TokenMarshaler token.TokenMarshaler
	Name           string
	Order          string
	Scopes         []func(*gorm.DB) *gorm.DB
	Filters        map[string]func(*gorm.DB, string) *gorm.DB
	OnCreate       func(I, time.Time, string) (T, error)
	OnUpdate       func(I, map[string]interface{}) error
}

func (rs *RepositoryService[T, I]) resource() string {
	if rs.Name == "" {
		return ""
	}
	return strings.ToLower(rs.Name[:1]) + rs.Name[1:]
}

func (rs *RepositoryService[T, I]) query(ctx context.Context) *gorm.DB {
	return rs.DB.WithContext(ctx).Model(new(T)).Scopes(rs.Scopes...)
}

func (rs *RepositoryService[T, I]) List(ctx context.Context, params data.QueryParams) (data.QueryResults[T], error) {
	cursor, err := rs.TokenMarshaler.Unmarshal(rs.Name, params.NextToken)
	if err != nil {
		return data.QueryResults[T]{}, exceptions.InvalidField("nextToken", "The pagination token is not valid")
	}
	offset := 0
	if cursor != nil {
		offset = cursor.Offset
	}
	limit := params.GetLimit()
	query := rs.query(ctx)
	for name, value := range params.Filters {
		if filter, ok := rs.Filters[name]; ok && value != "" {
			query = filter(query, value)
		}
	}
	order := rs.Order
	if order == "" {
		order = "create_time, id"
	}
	var items []T
	if err := query.Order(order).Offset(offset).Limit(limit + 1).Find(&items).Error; err != nil {
		return data.QueryResults[T]{}, TranslateError(err, rs.resource(), "")
	}
	var nextToken []byte
	if len(items) > limit {
		items = items[:limit]
		nextToken, err = rs.TokenMarshaler.Marshal(rs.Name, &token.Cursor{Offset: offset + limit})
		if err != nil {
			return data.QueryResults[T]{}, err
		}
	}
	if items == nil {
		items = []T{}
	}
	return data.QueryResults[T]{
		Items:     items,
		NextToken: nextToken,
	}, nil
}

func (rs *RepositoryService[T, I]) Get(ctx context.Context, itemId string) (T, error) {
	var item T
	err := rs.query(ctx).Where("id = ?", itemId).Take(&item).Error
	return item, TranslateError(err, rs.resource(), itemId)
}

func (rs *RepositoryService[T, I]) Create(ctx context.Context, input I) (T, error) {
	id := uuid.NewString()
	item, err := rs.OnCreate(input, rs.DB.NowFunc(), id)
	if err != nil {
		return item, err
	}
	if err := rs.DB.WithContext(ctx).Omit(clause.Associations).Create(&item).Error; err != nil {
		return item, TranslateError(err, rs.resource(), id)
	}
	return rs.Get(ctx, id)
}

func (rs *RepositoryService[T, I]) Update(ctx context.Context, itemId string, input I) (T, error) {
	var item T
	columns := map[string]interface{}{}
	if rs.OnUpdate != nil {
		if err := rs.OnUpdate(input, columns); err != nil {
			return item, err
		}
	}
	columns["update_time"] = rs.DB.NowFunc()
	result := rs.DB.WithContext(ctx).Model(new(T)).Where("id = ?", itemId).Updates(columns)
	if result.Error != nil {
		return item, TranslateError(result.Error, rs.resource(), itemId)
	}
	if result.RowsAffected == 0 {
		return item, exceptions.NotFound(rs.resource(), itemId)
	}
	return rs.Get(ctx, itemId)
}

// Delete removes the row. A missing row is not an error.
func (rs *RepositoryService[T, I]) Delete(ctx context.Context, itemId string) error {
	err := rs.DB.WithContext(ctx).Where("id = ?", itemId).Delete(new(T)).Error
	return TranslateError(err, rs.resource(), itemId)
}

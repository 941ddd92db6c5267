package stocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database/services"
	"philcali.me/groceries/internal/database/token"
	"philcali.me/groceries/internal/exceptions"
)

type StockGormService struct {
	DB             *gorm.DB
	TokenMarshaler token.TokenMarshaler
	list           *services.RepositoryService[data.StockDTO, struct{}]
}

func NewStockService(db *gorm.DB, marshaler token.TokenMarshaler) data.StockDataService {
	return &StockGormService{
		DB:             db,
		TokenMarshaler: marshaler,
		list: &services.RepositoryService[data.StockDTO, struct{}]{
			DB:             db,
			TokenMarshaler: marshaler,
			Name:           "Stock",
			Order:          "create_time, id",
			Scopes: []func(*gorm.DB) *gorm.DB{
				func(db *gorm.DB) *gorm.DB {
					return db.Preload("Product")
				},
			},
		},
	}
}

func (ss *StockGormService) List(ctx context.Context, params data.QueryParams) (data.QueryResults[data.StockDTO], error) {
	return ss.list.List(ctx, params)
}

// Upsert sets the stocked quantity of a product, creating the stock row on
// first use.
func (ss *StockGormService) Upsert(ctx context.Context, productId string, quantity decimal.Decimal) (data.StockDTO, error) {
	if quantity.IsNegative() {
		return data.StockDTO{}, exceptions.InvalidField("quantity", "Quantity cannot be negative")
	}
	err := ss.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product data.ProductDTO
		if err := tx.Where("id = ?", productId).Take(&product).Error; err != nil {
			return services.TranslateError(err, "product", productId)
		}
		now := tx.NowFunc()
		stock := data.StockDTO{
			ID:         uuid.NewString(),
			ProductID:  productId,
			Quantity:   quantity,
			CreateTime: now,
			UpdateTime: now,
		}
		return tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "update_time"}),
		}).Create(&stock).Error
	})
	if err != nil {
		return data.StockDTO{}, err
	}
	var stock data.StockDTO
	err = ss.DB.WithContext(ctx).Preload("Product").Where("product_id = ?", productId).Take(&stock).Error
	return stock, services.TranslateError(err, "stock", productId)
}

package dishes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database/services"
	"philcali.me/groceries/internal/database/token"
	"philcali.me/groceries/internal/exceptions"
)

type DishGormService struct {
	DB   *gorm.DB
	repo *services.RepositoryService[data.DishDTO, data.DishInputDTO]
}

func NewDishService(db *gorm.DB, marshaler token.TokenMarshaler) data.DishDataService {
	return &DishGormService{
		DB: db,
		repo: &services.RepositoryService[data.DishDTO, data.DishInputDTO]{
			DB:             db,
			TokenMarshaler: marshaler,
			Name:           "Dish",
			Order:          "date DESC, id",
		},
	}
}

func (ds *DishGormService) List(ctx context.Context, params data.QueryParams) (data.QueryResults[data.DishDTO], error) {
	return ds.repo.List(ctx, params)
}

func (ds *DishGormService) Get(ctx context.Context, dishId string) (data.DishDTO, error) {
	return ds.repo.Get(ctx, dishId)
}

// Create records a recipe as cooked. The dish keeps a copy of the recipe
// name so it survives renames.
func (ds *DishGormService) Create(ctx context.Context, input data.DishInputDTO) (data.DishDTO, error) {
	if input.RecipeID == "" {
		return data.DishDTO{}, exceptions.InvalidField("recipeId", "A dish requires a recipe")
	}
	var recipe data.RecipeDTO
	err := ds.DB.WithContext(ctx).Where("id = ?", input.RecipeID).Take(&recipe).Error
	if err != nil {
		return data.DishDTO{}, services.TranslateError(err, "recipe", input.RecipeID)
	}
	now := ds.DB.NowFunc()
	dish := data.DishDTO{
		ID:         uuid.NewString(),
		RecipeID:   recipe.ID,
		Name:       recipe.Name,
		Date:       now,
		CreateTime: now,
	}
	if input.Date != nil {
		dish.Date = input.Date.UTC()
	}
	if err := ds.DB.WithContext(ctx).Create(&dish).Error; err != nil {
		return dish, services.TranslateError(err, "dish", dish.ID)
	}
	return dish, nil
}

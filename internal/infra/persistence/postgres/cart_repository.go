package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// cartRepository implements the domain.CartRepository interface using GORM.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// ListByUser retrieves all cart lines for one user, oldest first.
func (repo *cartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	var models []model.CartItemModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart items")
	}

	items := make([]*entity.CartItem, 0, len(models))
	for i := range models {
		items = append(items, toCartItemDomain(&models[i]))
	}

	return items, nil
}

// FindByID retrieves one cart line by its ID.
func (repo *cartRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error) {
	var itemM model.CartItemModel
	err := repo.db.WithContext(ctx).First(&itemM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart item by id")
	}

	return toCartItemDomain(&itemM), nil
}

// FindVariant retrieves the cart line for one (user, product, size, color).
func (repo *cartRepository) FindVariant(ctx context.Context, userID, productID uuid.UUID, size, color string) (*entity.CartItem, error) {
	var itemM model.CartItemModel
	err := repo.db.WithContext(ctx).
		First(&itemM, "user_id = ? AND product_id = ? AND size = ? AND color = ?", userID, productID, size, color).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart variant")
	}

	return toCartItemDomain(&itemM), nil
}

// Create persists a new cart line.
func (repo *cartRepository) Create(ctx context.Context, item *entity.CartItem) error {
	itemM := fromCartItemDomain(item)

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			// The variant uniqueness index caught a concurrent add.
			return domainerrors.ErrConflict.WrapMessage("cart line already exists for this variant")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductNotFound.WrapMessage("cart line references unknown product")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart line")
	}

	item.ID = itemM.ID
	item.AddedAt = itemM.AddedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

// Update modifies an existing cart line.
func (repo *cartRepository) Update(ctx context.Context, item *entity.CartItem) error {
	itemM := fromCartItemDomain(item)

	if err := repo.db.WithContext(ctx).Save(itemM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update cart line")
	}

	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

// Delete removes one cart line.
func (repo *cartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.CartItemModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete cart line")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartItemNotFound
	}

	return nil
}

// DeleteByUser removes every cart line for one user. Clearing an already
// empty cart is not an error.
func (repo *cartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).Delete(&model.CartItemModel{}, "user_id = ?", userID).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear cart")
	}

	return nil
}

func toCartItemDomain(data *model.CartItemModel) *entity.CartItem {
	return &entity.CartItem{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Size:      data.Size,
		Color:     data.Color,
		Quantity:  data.Quantity,
		Price:     data.Price,
		AddedAt:   data.AddedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromCartItemDomain(item *entity.CartItem) *model.CartItemModel {
	return &model.CartItemModel{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Size:      item.Size,
		Color:     item.Color,
		Quantity:  item.Quantity,
		Price:     item.Price,
		AddedAt:   item.AddedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

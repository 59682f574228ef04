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
	"gorm.io/gorm/clause"
)

// inventoryRepository implements the domain.InventoryRepository interface using GORM.
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository is the constructor for inventoryRepository.
func NewInventoryRepository(db *gorm.DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

// FindByID retrieves one inventory row by ID.
func (repo *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	var itemM model.InventoryModel
	err := repo.db.WithContext(ctx).First(&itemM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInventoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find inventory row by id")
	}

	return toInventoryDomain(&itemM), nil
}

// FindVariant retrieves the inventory row for one (product, size, color).
func (repo *inventoryRepository) FindVariant(ctx context.Context, productID uuid.UUID, size, color string) (*entity.InventoryItem, error) {
	return repo.findVariant(ctx, repo.db, productID, size, color)
}

// FindVariantForUpdate is FindVariant with SELECT ... FOR UPDATE semantics.
// The row lock holds until the surrounding transaction commits, which is
// what makes the check-then-reserve sequence safe under concurrency.
func (repo *inventoryRepository) FindVariantForUpdate(ctx context.Context, productID uuid.UUID, size, color string) (*entity.InventoryItem, error) {
	locked := repo.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})

	return repo.findVariant(ctx, locked, productID, size, color)
}

func (repo *inventoryRepository) findVariant(ctx context.Context, db *gorm.DB, productID uuid.UUID, size, color string) (*entity.InventoryItem, error) {
	var itemM model.InventoryModel
	err := db.WithContext(ctx).
		First(&itemM, "product_id = ? AND size = ? AND color = ?", productID, size, color).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInventoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find inventory variant")
	}

	return toInventoryDomain(&itemM), nil
}

// ListByProduct retrieves all variant rows for a product.
func (repo *inventoryRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.InventoryItem, error) {
	var models []model.InventoryModel
	err := repo.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("size, color").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list inventory rows")
	}

	return toInventoryDomainSlice(models), nil
}

// ListLowStock retrieves rows with available stock at or below their reorder level.
func (repo *inventoryRepository) ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error) {
	var models []model.InventoryModel
	err := repo.db.WithContext(ctx).
		Where("reorder_level > 0 AND quantity - reserved_quantity <= reorder_level").
		Order("quantity - reserved_quantity ASC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list low-stock rows")
	}

	return toInventoryDomainSlice(models), nil
}

// Create persists a new inventory row.
func (repo *inventoryRepository) Create(ctx context.Context, item *entity.InventoryItem) error {
	itemM := fromInventoryDomain(item)

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("inventory row already exists for this variant")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductNotFound.WrapMessage("inventory row references unknown product")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create inventory row")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

// Update modifies an existing inventory row.
func (repo *inventoryRepository) Update(ctx context.Context, item *entity.InventoryItem) error {
	itemM := fromInventoryDomain(item)

	if err := repo.db.WithContext(ctx).Save(itemM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("inventory quantities violate stock constraints")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update inventory row")
	}

	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

// stockMovementRepository implements the domain.StockMovementRepository interface using GORM.
type stockMovementRepository struct {
	db *gorm.DB
}

// NewStockMovementRepository is the constructor for stockMovementRepository.
func NewStockMovementRepository(db *gorm.DB) repository.StockMovementRepository {
	return &stockMovementRepository{db: db}
}

// Create appends one movement row.
func (repo *stockMovementRepository) Create(ctx context.Context, movement *entity.StockMovement) error {
	movementM := &model.StockMovementModel{
		ID:          movement.ID,
		InventoryID: movement.InventoryID,
		Type:        string(movement.Type),
		Quantity:    movement.Quantity,
		Reason:      movement.Reason,
		PerformedBy: movement.PerformedBy,
	}

	if err := repo.db.WithContext(ctx).Create(movementM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInventoryNotFound.WrapMessage("movement references unknown inventory row")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create stock movement")
	}

	movement.ID = movementM.ID
	movement.CreatedAt = movementM.CreatedAt

	return nil
}

// ListByInventory retrieves movements for one inventory row, newest first.
func (repo *stockMovementRepository) ListByInventory(ctx context.Context, inventoryID uuid.UUID, limit, offset int) ([]*entity.StockMovement, error) {
	var models []model.StockMovementModel
	err := repo.db.WithContext(ctx).
		Where("inventory_id = ?", inventoryID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stock movements")
	}

	movements := make([]*entity.StockMovement, 0, len(models))
	for i := range models {
		movements = append(movements, &entity.StockMovement{
			ID:          models[i].ID,
			InventoryID: models[i].InventoryID,
			Type:        entity.MovementType(models[i].Type),
			Quantity:    models[i].Quantity,
			Reason:      models[i].Reason,
			PerformedBy: models[i].PerformedBy,
			CreatedAt:   models[i].CreatedAt,
		})
	}

	return movements, nil
}

func toInventoryDomain(data *model.InventoryModel) *entity.InventoryItem {
	return &entity.InventoryItem{
		ID:               data.ID,
		ProductID:        data.ProductID,
		Size:             data.Size,
		Color:            data.Color,
		Quantity:         data.Quantity,
		ReservedQuantity: data.ReservedQuantity,
		ReorderLevel:     data.ReorderLevel,
		MaxStockLevel:    data.MaxStockLevel,
		Location:         data.Location,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

func toInventoryDomainSlice(models []model.InventoryModel) []*entity.InventoryItem {
	items := make([]*entity.InventoryItem, 0, len(models))
	for i := range models {
		items = append(items, toInventoryDomain(&models[i]))
	}

	return items
}

func fromInventoryDomain(item *entity.InventoryItem) *model.InventoryModel {
	return &model.InventoryModel{
		ID:               item.ID,
		ProductID:        item.ProductID,
		Size:             item.Size,
		Color:            item.Color,
		Quantity:         item.Quantity,
		ReservedQuantity: item.ReservedQuantity,
		ReorderLevel:     item.ReorderLevel,
		MaxStockLevel:    item.MaxStockLevel,
		Location:         item.Location,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

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

// purchaseRepository implements the domain.PurchaseRepository interface using GORM.
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository is the constructor for purchaseRepository.
func NewPurchaseRepository(db *gorm.DB) repository.PurchaseRepository {
	return &purchaseRepository{db: db}
}

// FindByID retrieves an order with its items.
func (repo *purchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	var purchaseM model.PurchaseModel
	err := repo.db.WithContext(ctx).Preload("Items").First(&purchaseM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPurchaseNotFound
		}

		return nil, errors.Wrap(err, "failed to find purchase by id")
	}

	return toPurchaseDomain(&purchaseM), nil
}

// FindByTrackingNumber retrieves a shipped order by its carrier tracking number.
func (repo *purchaseRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Purchase, error) {
	var purchaseM model.PurchaseModel
	err := repo.db.WithContext(ctx).Preload("Items").
		First(&purchaseM, "tracking_number = ?", trackingNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPurchaseNotFound
		}

		return nil, errors.Wrap(err, "failed to find purchase by tracking number")
	}

	return toPurchaseDomain(&purchaseM), nil
}

// List retrieves orders matching the filter, newest first, with items.
func (repo *purchaseRepository) List(ctx context.Context, filter repository.PurchaseFilter) ([]*entity.Purchase, error) {
	query := repo.db.WithContext(ctx).Model(&model.PurchaseModel{}).Preload("Items")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var models []model.PurchaseModel
	err := query.Order("created_at DESC").Offset(filter.Offset).Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list purchases")
	}

	purchases := make([]*entity.Purchase, 0, len(models))
	for i := range models {
		purchases = append(purchases, toPurchaseDomain(&models[i]))
	}

	return purchases, nil
}

// Create persists a new order together with its items.
func (repo *purchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	purchaseM := fromPurchaseDomain(purchase)

	if err := repo.db.WithContext(ctx).Create(purchaseM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("purchase references unknown user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create purchase")
	}

	purchase.ID = purchaseM.ID
	purchase.CreatedAt = purchaseM.CreatedAt
	purchase.UpdatedAt = purchaseM.UpdatedAt
	for i, itemM := range purchaseM.Items {
		purchase.Items[i].ID = itemM.ID
		purchase.Items[i].PurchaseID = itemM.PurchaseID
	}

	return nil
}

// Update modifies order header fields (status, tracking number).
func (repo *purchaseRepository) Update(ctx context.Context, purchase *entity.Purchase) error {
	// Items are immutable after checkout; only the header row is written.
	updates := map[string]any{
		"status":          string(purchase.Status),
		"tracking_number": purchase.TrackingNumber,
	}

	result := repo.db.WithContext(ctx).
		Model(&model.PurchaseModel{}).
		Where("id = ?", purchase.ID).
		Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update purchase")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPurchaseNotFound
	}

	return nil
}

// Delete removes an order and its items.
func (repo *purchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.PurchaseModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete purchase")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPurchaseNotFound
	}

	return nil
}

// Stats aggregates order counts and revenue for the admin dashboard.
// Cancelled and refunded orders are excluded from revenue.
func (repo *purchaseRepository) Stats(ctx context.Context) (*entity.PurchaseStats, error) {
	stats := &entity.PurchaseStats{
		CountsByStatus: make(map[entity.PurchaseStatus]int64),
	}

	var rows []struct {
		Status string
		Count  int64
		Total  float64
	}
	err := repo.db.WithContext(ctx).
		Model(&model.PurchaseModel{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate purchase stats")
	}

	for _, row := range rows {
		status := entity.PurchaseStatus(row.Status)
		stats.CountsByStatus[status] = row.Count
		stats.TotalOrders += row.Count
		if status != entity.PurchaseCancelled && status != entity.PurchaseRefunded {
			stats.TotalRevenue += row.Total
		}
	}

	return stats, nil
}

func toPurchaseDomain(data *model.PurchaseModel) *entity.Purchase {
	purchase := &entity.Purchase{
		ID:              data.ID,
		UserID:          data.UserID,
		Status:          entity.PurchaseStatus(data.Status),
		TotalAmount:     data.TotalAmount,
		ShippingAddress: data.ShippingAddress,
		PaymentMethod:   data.PaymentMethod,
		TrackingNumber:  data.TrackingNumber,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
	for i := range data.Items {
		itemM := &data.Items[i]
		purchase.Items = append(purchase.Items, &entity.PurchaseItem{
			ID:         itemM.ID,
			PurchaseID: itemM.PurchaseID,
			ProductID:  itemM.ProductID,
			Size:       itemM.Size,
			Color:      itemM.Color,
			Quantity:   itemM.Quantity,
			UnitPrice:  itemM.UnitPrice,
		})
	}

	return purchase
}

func fromPurchaseDomain(purchase *entity.Purchase) *model.PurchaseModel {
	purchaseM := &model.PurchaseModel{
		ID:              purchase.ID,
		UserID:          purchase.UserID,
		Status:          string(purchase.Status),
		TotalAmount:     purchase.TotalAmount,
		ShippingAddress: purchase.ShippingAddress,
		PaymentMethod:   purchase.PaymentMethod,
		TrackingNumber:  purchase.TrackingNumber,
	}
	for _, item := range purchase.Items {
		purchaseM.Items = append(purchaseM.Items, model.PurchaseItemModel{
			ID:        item.ID,
			ProductID: item.ProductID,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return purchaseM
}

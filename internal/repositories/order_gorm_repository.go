package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kedai/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// orderRecord is the row shape of the orders table. Items are kept as a JSON
// text blob and never leave this file in serialized form.
type orderRecord struct {
	ID                    string  `gorm:"primaryKey;type:varchar(36)"`
	UserID                *string `gorm:"type:varchar(36);index"`
	Items                 string  `gorm:"type:text;not null"`
	Total                 int     `gorm:"not null"`
	Status                string  `gorm:"type:varchar(20);not null;default:confirmed"`
	DeliveryAddress       string  `gorm:"type:text;not null"`
	PaymentMethod         string  `gorm:"type:varchar(32);not null"`
	CustomerName          string  `gorm:"type:varchar(255)"`
	CustomerPhone         string  `gorm:"type:varchar(32)"`
	EstimatedDeliveryTime int     `gorm:"default:35"`
	ActualDeliveryTime    *int
	CreatedAt             time.Time `gorm:"index"`
	UpdatedAt             time.Time
}

func (orderRecord) TableName() string { return "orders" }

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB, logger *zap.Logger) *GORMOrderRepository {
	return &GORMOrderRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Create inserts a new order.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = r.now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	rec, err := toOrderRecord(order)
	if err != nil {
		return err
	}
	if err := r.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var rec orderRecord
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	order := r.fromOrderRecord(rec)
	return &order, nil
}

// ListByUser retrieves the orders owned by userID, newest first.
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var recs []orderRecord
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return r.fromOrderRecords(recs), nil
}

// ListAll retrieves every order, newest first.
func (r *GORMOrderRepository) ListAll() ([]models.Order, error) {
	var recs []orderRecord
	if err := r.db.Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return r.fromOrderRecords(recs), nil
}

// UpdatePartial updates the non-nil fields and the update timestamp.
func (r *GORMOrderRepository) UpdatePartial(id string, fields models.OrderUpdate) (*models.Order, error) {
	updates := map[string]interface{}{"updated_at": r.now()}
	if fields.Status != nil {
		updates["status"] = string(*fields.Status)
	}
	if fields.EstimatedDeliveryTime != nil {
		updates["estimated_delivery_time"] = *fields.EstimatedDeliveryTime
	}

	query := r.db.Model(&orderRecord{}).Where("id = ?", id)
	if len(fields.OnlyFrom) > 0 {
		statuses := make([]string, len(fields.OnlyFrom))
		for i, s := range fields.OnlyFrom {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}

	res := query.Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		current, err := r.GetByID(id)
		if err != nil {
			return nil, fmt.Errorf("order with ID %s not found for update: %w", id, err)
		}
		return nil, fmt.Errorf("order %s is %s: %w", id, current.Status, ErrOrderStatusChanged)
	}
	return r.GetByID(id)
}

// Delete deletes an order by its ID.
func (r *GORMOrderRepository) Delete(id string) error {
	res := r.db.Delete(&orderRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for deletion: %w", id, ErrOrderNotFound)
	}
	return nil
}

// DeleteAll wipes the orders table.
func (r *GORMOrderRepository) DeleteAll() error {
	if err := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&orderRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete all orders: %w", err)
	}
	return nil
}

func toOrderRecord(order *models.Order) (orderRecord, error) {
	items := order.Items
	if items == nil {
		items = []models.OrderItem{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return orderRecord{}, fmt.Errorf("failed to encode order items: %w", err)
	}
	rec := orderRecord{
		ID:                    order.ID,
		Items:                 string(blob),
		Total:                 order.Total,
		Status:                string(order.Status),
		DeliveryAddress:       order.DeliveryAddress,
		PaymentMethod:         order.PaymentMethod,
		CustomerName:          order.CustomerName,
		CustomerPhone:         order.CustomerPhone,
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
		ActualDeliveryTime:    order.ActualDeliveryTime,
		CreatedAt:             order.CreatedAt,
		UpdatedAt:             order.UpdatedAt,
	}
	if order.UserID != "" {
		userID := order.UserID
		rec.UserID = &userID
	}
	return rec, nil
}

// fromOrderRecord never fails: an unreadable item blob becomes an empty list.
func (r *GORMOrderRepository) fromOrderRecord(rec orderRecord) models.Order {
	order := models.Order{
		ID:                    rec.ID,
		Total:                 rec.Total,
		Status:                models.OrderStatus(rec.Status),
		DeliveryAddress:       rec.DeliveryAddress,
		PaymentMethod:         rec.PaymentMethod,
		CustomerName:          rec.CustomerName,
		CustomerPhone:         rec.CustomerPhone,
		EstimatedDeliveryTime: rec.EstimatedDeliveryTime,
		ActualDeliveryTime:    rec.ActualDeliveryTime,
		CreatedAt:             rec.CreatedAt,
		UpdatedAt:             rec.UpdatedAt,
	}
	if rec.UserID != nil {
		order.UserID = *rec.UserID
	}
	if err := json.Unmarshal([]byte(rec.Items), &order.Items); err != nil {
		r.logger.Warn("Skipping unreadable order items",
			zap.String("orderId", rec.ID),
			zap.Error(err))
		order.Items = []models.OrderItem{}
	}
	return order
}

func (r *GORMOrderRepository) fromOrderRecords(recs []orderRecord) []models.Order {
	orders := make([]models.Order, len(recs))
	for i, rec := range recs {
		orders[i] = r.fromOrderRecord(rec)
	}
	return orders
}

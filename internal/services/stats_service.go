package services

import (
	"fmt"
	"sort"
	"time"

	"kedai/internal/models"
	"kedai/internal/repositories"

	"go.uber.org/zap"
)

const (
	recentOrdersLimit = 10
	popularItemsLimit = 5
)

// StatsService computes the admin dashboard from the current store contents.
type StatsService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	foodRepo  repositories.FoodRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(orderRepo repositories.OrderRepository, userRepo repositories.UserRepository, foodRepo repositories.FoodRepository, logger *zap.Logger) *StatsService {
	return &StatsService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		foodRepo:  foodRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// GetStats recomputes every figure on each call. Nothing is cached.
func (s *StatsService) GetStats() (*models.Stats, error) {
	orders, err := s.orderRepo.ListAll()
	if err != nil {
		return nil, s.storageFailure("list orders", err)
	}
	users, err := s.userRepo.List()
	if err != nil {
		return nil, s.storageFailure("list users", err)
	}
	foods, err := s.foodRepo.GetAll()
	if err != nil {
		return nil, s.storageFailure("list foods", err)
	}

	now := s.now()
	stats := AggregateOrders(orders, now)
	stats.Users.Total = len(users)
	today := startOfDay(now)
	for _, u := range users {
		if !u.CreatedAt.Before(today) {
			stats.Users.NewToday++
		}
	}
	stats.Foods.Total = len(foods)
	for _, f := range foods {
		if f.Available {
			stats.Foods.Available++
		}
	}
	return stats, nil
}

// AggregateOrders derives the order figures of the dashboard. orders must be
// newest first; the first ten become the recent list.
func AggregateOrders(orders []models.Order, now time.Time) *models.Stats {
	today := startOfDay(now)
	weekAgo := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &models.Stats{
		Orders: models.OrderCounts{
			ByStatus: make(map[models.OrderStatus]int, len(models.AllStatuses)),
			Recent:   make([]models.Order, 0, recentOrdersLimit),
		},
		PopularItems: make([]models.PopularItem, 0, popularItemsLimit),
		LastUpdated:  now,
	}
	for _, status := range models.AllStatuses {
		stats.Orders.ByStatus[status] = 0
	}

	quantities := make(map[string]int)
	var encountered []string

	for _, o := range orders {
		stats.Orders.Total++
		stats.Revenue.Total += o.Total
		if !o.CreatedAt.Before(today) {
			stats.Orders.Today++
			stats.Revenue.Today += o.Total
		}
		if !o.CreatedAt.Before(weekAgo) {
			stats.Orders.Weekly++
			stats.Revenue.Weekly += o.Total
		}
		if !o.CreatedAt.Before(monthStart) {
			stats.Orders.Monthly++
			stats.Revenue.Monthly += o.Total
		}
		if o.Status.Valid() {
			stats.Orders.ByStatus[o.Status]++
		}
		if len(stats.Orders.Recent) < recentOrdersLimit {
			stats.Orders.Recent = append(stats.Orders.Recent, o)
		}

		for _, item := range o.Items {
			if _, seen := quantities[item.Name]; !seen {
				encountered = append(encountered, item.Name)
			}
			quantities[item.Name] += item.Quantity
		}
	}

	// Stable sort keeps first-encounter order among equal counts.
	sort.SliceStable(encountered, func(i, j int) bool {
		return quantities[encountered[i]] > quantities[encountered[j]]
	})
	for _, name := range encountered {
		if len(stats.PopularItems) == popularItemsLimit {
			break
		}
		stats.PopularItems = append(stats.PopularItems, models.PopularItem{Name: name, Count: quantities[name]})
	}
	return stats
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *StatsService) storageFailure(op string, err error) error {
	s.logger.Error("Stats storage operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: could not %s", ErrStorageFailure, op)
}

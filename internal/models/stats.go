package models

import "time"

// Stats is the admin dashboard snapshot, recomputed on every request.
type Stats struct {
	Orders       OrderCounts   `json:"orders"`
	Revenue      RevenueSums   `json:"revenue"`
	Users        UserCounts    `json:"users"`
	Foods        FoodCounts    `json:"foods"`
	PopularItems []PopularItem `json:"popularItems"`
	LastUpdated  time.Time     `json:"lastUpdated"`
}

type OrderCounts struct {
	Total    int                 `json:"total"`
	Today    int                 `json:"today"`
	Weekly   int                 `json:"weekly"`
	Monthly  int                 `json:"monthly"`
	ByStatus map[OrderStatus]int `json:"byStatus"`
	Recent   []Order             `json:"recent"`
}

type RevenueSums struct {
	Total   int `json:"total"`
	Today   int `json:"today"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
}

type UserCounts struct {
	Total    int `json:"total"`
	NewToday int `json:"newToday"`
}

type FoodCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

// PopularItem is an item name with the quantity ordered across all orders.
type PopularItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

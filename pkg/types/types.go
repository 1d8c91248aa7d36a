// Package domain defines the core business types for the price tracker.
package domain

import (
	"time"
)

// NotificationKind identifies the email a subscriber receives.
type NotificationKind string

// Notification kind constants.
const (
	NotifyWelcome     NotificationKind = "welcome"
	NotifyPriceDrop   NotificationKind = "price_drop"
	NotifyLowestPrice NotificationKind = "lowest_price"
	NotifyBackInStock NotificationKind = "back_in_stock"
	NotifyNone        NotificationKind = "none"
)

// PricePoint is one observed price. Entries are never mutated once
// appended to a product's history.
type PricePoint struct {
	Price float64   `json:"price" bson:"price"`
	Date  time.Time `json:"date"  bson:"date"`
}

// Product is a tracked product page, keyed by its canonical URL.
type Product struct {
	ID  string `json:"id"  bson:"_id"`
	URL string `json:"url" bson:"url"`

	Title       string   `json:"title"                 bson:"title"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Category    string   `json:"category,omitempty"    bson:"category,omitempty"`
	Image       string   `json:"image,omitempty"       bson:"image,omitempty"`
	Images      []string `json:"images,omitempty"      bson:"images,omitempty"`

	// Pricing
	Currency      string  `json:"currency"       bson:"currency"`
	CurrentPrice  float64 `json:"current_price"  bson:"current_price"`
	OriginalPrice float64 `json:"original_price" bson:"original_price"`
	DiscountRate  float64 `json:"discount_rate"  bson:"discount_rate"`
	IsOutOfStock  bool    `json:"is_out_of_stock" bson:"is_out_of_stock"`

	// Reviews
	Stars        float64 `json:"stars"         bson:"stars"`
	ReviewsCount int     `json:"reviews_count" bson:"reviews_count"`

	// History and derived statistics
	PriceHistory []PricePoint `json:"price_history" bson:"price_history"`
	LowestPrice  float64      `json:"lowest_price"  bson:"lowest_price"`
	HighestPrice float64      `json:"highest_price" bson:"highest_price"`
	AveragePrice float64      `json:"average_price" bson:"average_price"`

	// DealScore is computed on read and never stored.
	DealScore int `json:"deal_score" bson:"-"`

	// Subscribers are never serialized to API clients; SubscriberCount is
	// filled in on read instead.
	Subscribers     []string `json:"-"                bson:"subscribers"`
	SubscriberCount int      `json:"subscriber_count" bson:"-"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Snapshot is the result of scraping one product page at one point in time.
// URL, Title and CurrentPrice are always set on a successful scrape.
type Snapshot struct {
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Currency      string    `json:"currency,omitempty"`
	CurrentPrice  float64   `json:"current_price"`
	OriginalPrice float64   `json:"original_price,omitempty"`
	DiscountRate  float64   `json:"discount_rate,omitempty"`
	IsOutOfStock  bool      `json:"is_out_of_stock"`
	Image         string    `json:"image,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	Stars         float64   `json:"stars,omitempty"`
	ReviewsCount  int       `json:"reviews_count,omitempty"`
	ScrapedAt     time.Time `json:"scraped_at"`
}

// CycleRun records a single execution of the update cycle.
type CycleRun struct {
	ID           string     `json:"id"                      db:"id"            bson:"_id"`
	JobName      string     `json:"job_name"                db:"job_name"      bson:"job_name"`
	StartedAt    time.Time  `json:"started_at"              db:"started_at"    bson:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"  db:"completed_at"  bson:"completed_at,omitempty"`
	Status       string     `json:"status"                  db:"status"        bson:"status"`
	ErrorText    string     `json:"error_text,omitempty"    db:"error_text"    bson:"error_text,omitempty"`
	RowsAffected *int       `json:"rows_affected,omitempty" db:"rows_affected" bson:"rows_affected,omitempty"`
}

// Cycle run status values.
const (
	CycleStatusRunning = "running"
	CycleStatusSuccess = "success"
	CycleStatusPartial = "partial"
	CycleStatusFailed  = "failed"
)

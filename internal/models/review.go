package models

import "time"

// Review is customer feedback on a single purchased item. At most one review
// exists per order item, and it can only be written once the owning order
// has completed.
type Review struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderItemID string    `json:"order_item_id" gorm:"uniqueIndex;type:varchar(36)"`
	OrderItem   OrderItem `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Rating      int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment     string    `json:"comment" gorm:"type:text" validate:"omitempty,max=2000"`
	CreatedAt   time.Time `json:"created_at"`
}

// RatingSummary aggregates the reviews of one product.
type RatingSummary struct {
	Average float64 `json:"average_rating"`
	Count   int     `json:"review_count"`
}

// SummarizeRatings computes the average rating over reviews. Count is zero
// and Average is zero when there are no reviews.
func SummarizeRatings(reviews []Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{}
	}
	total := 0
	for i := range reviews {
		total += reviews[i].Rating
	}
	return RatingSummary{
		Average: float64(total) / float64(len(reviews)),
		Count:   len(reviews),
	}
}

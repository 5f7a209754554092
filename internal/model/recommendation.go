package model

import (
	"fmt"
	"time"
)

// RecommendationType classifies how the recommended product relates to the base product.
type RecommendationType string

const (
	TypeCrossSell RecommendationType = "cross-sell"
	TypeUpSell    RecommendationType = "up-sell"
	TypeAccessory RecommendationType = "accessory"
)

// RecommendationTypes lists every accepted RecommendationType in display order.
var RecommendationTypes = []RecommendationType{TypeCrossSell, TypeUpSell, TypeAccessory}

func (t RecommendationType) Valid() bool {
	for _, v := range RecommendationTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Status is the publication state of a recommendation.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusDraft   Status = "draft"
)

var Statuses = []Status{StatusActive, StatusExpired, StatusDraft}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Recommendation links a product to another product it recommends.
// LastUpdated doubles as the optimistic-concurrency token: every successful
// update must present the value it read and receives a fresh one.
type Recommendation struct {
	ID                 int64              `gorm:"primaryKey;autoIncrement"`
	ProductID          int64              `gorm:"not null;index;check:chk_recommendations_product_id,product_id > 0"`
	RecommendedID      int64              `gorm:"not null;index;check:chk_recommendations_recommended_id,recommended_id > 0"`
	RecommendationType RecommendationType `gorm:"type:varchar(16);not null;check:chk_recommendations_type,recommendation_type IN ('cross-sell','up-sell','accessory')"`
	Status             Status             `gorm:"type:varchar(16);not null;index;check:chk_recommendations_status,status IN ('active','expired','draft')"`
	Like               int                `gorm:"column:like_count;not null;default:0;check:chk_recommendations_like,like_count >= 0"`
	Dislike            int                `gorm:"column:dislike_count;not null;default:0;check:chk_recommendations_dislike,dislike_count >= 0"`
	CreatedAt          time.Time          `gorm:"not null;index"`
	LastUpdated        time.Time          `gorm:"not null"`
}

func (Recommendation) TableName() string { return "recommendations" }

func (r Recommendation) String() string {
	return fmt.Sprintf("<Recommendation id=[%d] product_id=[%d] recommended_id=[%d]>", r.ID, r.ProductID, r.RecommendedID)
}

// NewRecommendation validates every business field before returning a value.
// On error nothing is returned, so callers never hold a half-built entity.
func NewRecommendation(productID, recommendedID int64, t RecommendationType, s Status) (*Recommendation, error) {
	r := &Recommendation{}
	if err := r.SetProductID(productID); err != nil {
		return nil, err
	}
	if err := r.SetRecommendedID(recommendedID); err != nil {
		return nil, err
	}
	if err := r.SetType(t); err != nil {
		return nil, err
	}
	if err := r.SetStatus(s); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Recommendation) SetProductID(v int64) error {
	if v <= 0 {
		return invalidf(FieldProductID, "Invalid product_id: must be a positive number")
	}
	r.ProductID = v
	return nil
}

func (r *Recommendation) SetRecommendedID(v int64) error {
	if v <= 0 {
		return invalidf(FieldRecommendedID, "Invalid recommended_id: must be a positive number")
	}
	r.RecommendedID = v
	return nil
}

func (r *Recommendation) SetType(t RecommendationType) error {
	if !t.Valid() {
		return invalidf(FieldRecommendationType,
			"Invalid recommendation_type: must be one of ['cross-sell', 'up-sell', 'accessory']")
	}
	r.RecommendationType = t
	return nil
}

func (r *Recommendation) SetStatus(s Status) error {
	if !s.Valid() {
		return invalidf(FieldStatus, "Invalid status: must be one of ['active', 'expired', 'draft']")
	}
	r.Status = s
	return nil
}

func (r *Recommendation) SetLike(v int) error {
	if v < 0 {
		return invalidf(FieldLike, "Invalid like: must be a non-negative number")
	}
	r.Like = v
	return nil
}

func (r *Recommendation) SetDislike(v int) error {
	if v < 0 {
		return invalidf(FieldDislike, "Invalid dislike: must be a non-negative number")
	}
	r.Dislike = v
	return nil
}

// TokenPrecision is the resolution at which concurrency tokens are stored and compared.
// PostgreSQL timestamps keep microseconds.
const TokenPrecision = time.Microsecond

// SameVersion reports whether r still carries the token persisted in current.
func (r *Recommendation) SameVersion(current *Recommendation) bool {
	return r.LastUpdated.Truncate(TokenPrecision).Equal(current.LastUpdated.Truncate(TokenPrecision))
}

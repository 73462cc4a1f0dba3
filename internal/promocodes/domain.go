package promocodes

import "time"

// Promocode grants riders a percentage discount on trip payments. A code
// stays redeemable while it is active, unexpired and under its usage cap.
type Promocode struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discountPercent"`
	MaxUses         int        `json:"maxUses"`
	UsedCount       int        `json:"usedCount"`
	IsActive        bool       `json:"isActive"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	CreatedBy       string     `json:"createdBy"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Redeemable reports whether the code can still be applied at ref time.
func (p Promocode) Redeemable(ref time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.MaxUses > 0 && p.UsedCount >= p.MaxUses {
		return false
	}
	if p.ExpiresAt != nil && !ref.Before(*p.ExpiresAt) {
		return false
	}
	return true
}

package specification

import "gorm.io/gorm"

// ByEmail filters users by email
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByProviderAccount filters provider links by provider name and the
// provider-side user id
type ByProviderAccount struct {
	ProviderName   string
	ProviderUserId string
}

func (s ByProviderAccount) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider_name = ? AND provider_user_id = ?", s.ProviderName, s.ProviderUserId)
}

package registry

import (
	"time"

	"saaam-quantumgate/services/catalog"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type LicenseStatus string

const (
	LicenseStatusActive  LicenseStatus = "active"
	LicenseStatusExpired LicenseStatus = "expired"
	LicenseStatusRevoked LicenseStatus = "revoked"
)

// License binds a company to a tier with derived credentials and a 30-day
// validity window. Allocation, fee and the feature set are snapshotted at
// issuance; later catalog changes never alter an issued license.
type License struct {
	ID                string          `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at" json:"updated_at"`
	Tier              string          `gorm:"column:tier;not null" json:"tier"`
	CompanyName       string          `gorm:"column:company_name;not null" json:"company_name"`
	CompanySlug       string          `gorm:"column:company_slug;index" json:"company_slug"`
	LicenseKey        string          `gorm:"column:license_key;uniqueIndex;not null" json:"license_key"`
	APIKey            string          `gorm:"column:api_key;uniqueIndex;not null" json:"api_key"`
	AccessLevel       float64         `gorm:"column:access_level" json:"access_level"`
	QuantumAllocation int             `gorm:"column:quantum_allocation" json:"quantum_allocation"`
	MonthlyFee        decimal.Decimal `gorm:"column:monthly_fee;type:numeric" json:"monthly_fee"`
	Features          pq.StringArray  `gorm:"column:features;type:text[]" json:"features"`
	StartDate         time.Time       `gorm:"column:start_date" json:"start_date"`
	ExpirationDate    time.Time       `gorm:"column:expiration_date;index" json:"expiration_date"`
	Status            LicenseStatus   `gorm:"column:status;default:'active';not null" json:"status"`
	RevokedAt         *time.Time      `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
}

func (m *License) TierValue() catalog.Tier {
	return catalog.Tier(m.Tier)
}

// HasFeature checks the issuance-time entitlement snapshot.
func (m *License) HasFeature(feature string) bool {
	for _, f := range m.Features {
		if f == feature {
			return true
		}
	}
	return false
}

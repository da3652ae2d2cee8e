package model

import "gorm.io/gorm"

type ListingType string

const (
	ListingRent ListingType = "RENT"
	ListingSale ListingType = "SALE"
)

type PropertyType string

const (
	PropertyApartment  PropertyType = "APARTMENT"
	PropertyHouse      PropertyType = "HOUSE"
	PropertyVilla      PropertyType = "VILLA"
	PropertyPlot       PropertyType = "PLOT"
	PropertyCommercial PropertyType = "COMMERCIAL"
)

type BHK string

const (
	RK1      BHK = "RK1"
	BHK1     BHK = "BHK1"
	BHK2     BHK = "BHK2"
	BHK3     BHK = "BHK3"
	BHK4     BHK = "BHK4"
	BHK4Plus BHK = "BHK4_PLUS"
)

type PreferredTenants string

const (
	TenantsFamily    PreferredTenants = "FAMILY"
	TenantsBachelors PreferredTenants = "BACHELORS"
	TenantsAnyone    PreferredTenants = "ANYONE"
)

var (
	ListingTypes     = []ListingType{ListingRent, ListingSale}
	PropertyTypes    = []PropertyType{PropertyApartment, PropertyHouse, PropertyVilla, PropertyPlot, PropertyCommercial}
	BHKs             = []BHK{RK1, BHK1, BHK2, BHK3, BHK4, BHK4Plus}
	TenantPreference = []PreferredTenants{TenantsFamily, TenantsBachelors, TenantsAnyone}
)

type Property struct {
	gorm.Model
	Name             string           `json:"name" gorm:"not null"`
	Description      string           `json:"description" gorm:"type:text"`
	Type             ListingType      `json:"type" gorm:"index;not null"`
	PropertyType     PropertyType     `json:"property_type"`
	BHK              BHK              `json:"bhk"`
	Price            uint64           `json:"price" gorm:"index"`
	Area             uint64           `json:"area"`
	PreferredTenants PreferredTenants `json:"preferred_tenants"`
	Street           string           `json:"street"`
	City             string           `json:"city" gorm:"index"`
	State            string           `json:"state"`
	Pincode          string           `json:"pincode"`
	IsSold           bool             `json:"is_sold" gorm:"index;default:false"`
	OwnerID          uint             `json:"owner_id" gorm:"index;not null"`
	Owner            *User            `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Images           []Image          `json:"images" gorm:"constraint:OnDelete:CASCADE;"`
}

// EditableFields lists the columns a listing owner may change through an edit.
var EditableFields = []string{
	"Name", "Description", "Type", "PropertyType", "BHK", "Price", "Area",
	"PreferredTenants", "Street", "City", "State", "Pincode",
}

func (p *Property) SanitizeOwner() {
	if p.Owner != nil {
		p.Owner.SanitizePassword()
	}
}

func (t ListingType) Valid() bool {
	for _, v := range ListingTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (t PropertyType) Valid() bool {
	for _, v := range PropertyTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (b BHK) Valid() bool {
	for _, v := range BHKs {
		if v == b {
			return true
		}
	}
	return false
}

func (t PreferredTenants) Valid() bool {
	for _, v := range TenantPreference {
		if v == t {
			return true
		}
	}
	return false
}

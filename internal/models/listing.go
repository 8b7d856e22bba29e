package models

import "time"

// ListingType is the kind of accommodation offered.
type ListingType string

const (
	ListingTypeRoom      ListingType = "room"
	ListingTypeApartment ListingType = "apartment"
	ListingTypeHouse     ListingType = "house"
)

// ListingMode distinguishes shared from classic rentals.
type ListingMode string

const (
	ListingModeColocation ListingMode = "colocation"
	ListingModeClassic    ListingMode = "classic"
)

// PriceType states whether the price is per person or for the whole unit.
type PriceType string

const (
	PriceTypeTotal     PriceType = "total"
	PriceTypePerPerson PriceType = "per_person"
)

// ListingStatus tracks the lifecycle independently of admin validation.
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusInactive ListingStatus = "inactive"
	ListingStatusRented   ListingStatus = "rented"
)

// Listing represents a row in the listings table. A listing is publicly
// visible only when AdminValidated is true and Status is active.
type Listing struct {
	ID             string        `db:"id" json:"id"`
	UserID         string        `db:"user_id" json:"userId"`
	Title          string        `db:"title" json:"title"`
	Description    string        `db:"description" json:"description"`
	Type           ListingType   `db:"type" json:"type"`
	Mode           ListingMode   `db:"mode" json:"mode"`
	Price          int           `db:"price" json:"price"`
	PriceType      PriceType     `db:"price_type" json:"priceType"`
	Location       string        `db:"location" json:"location"`
	AvailableSpots *int          `db:"available_spots" json:"availableSpots,omitempty"`
	TotalSpots     *int          `db:"total_spots" json:"totalSpots,omitempty"`
	ContactPhone   string        `db:"contact_phone" json:"contact"`
	Caution        int           `db:"caution" json:"caution"`
	AdminValidated bool          `db:"admin_validated" json:"adminValidated"`
	Status         ListingStatus `db:"status" json:"status"`
	Views          int           `db:"views" json:"views"`
	ValidatedBy    *string       `db:"validated_by" json:"validatedBy,omitempty"`
	ValidationDate *time.Time    `db:"validation_date" json:"validationDate,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
}

// ListingWithOwner joins a listing with its owner's display fields.
type ListingWithOwner struct {
	Listing
	OwnerFirstName string    `db:"owner_first_name" json:"-"`
	OwnerLastName  string    `db:"owner_last_name" json:"-"`
	OwnerEmail     string    `db:"owner_email" json:"-"`
	OwnerPhone     string    `db:"owner_phone" json:"-"`
	OwnerRole      UserRole  `db:"owner_role" json:"-"`
	OwnerVerified  bool      `db:"owner_verified" json:"-"`
	OwnerSince     time.Time `db:"owner_created_at" json:"-"`
}

// Publisher is the public identity attached to a listing.
type Publisher struct {
	Name        string    `json:"name"`
	Role        UserRole  `json:"role"`
	Verified    bool      `json:"verified"`
	MemberSince time.Time `json:"memberSince"`
}

// PublicListing is the shape served on the public browse/detail paths.
type PublicListing struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Type           ListingType `json:"type"`
	Mode           ListingMode `json:"mode"`
	Price          int         `json:"price"`
	PriceType      PriceType   `json:"priceType"`
	Location       string      `json:"location"`
	AvailableSpots *int        `json:"availableSpots,omitempty"`
	TotalSpots     *int        `json:"totalSpots,omitempty"`
	Contact        string      `json:"contact"`
	Deposit        int         `json:"deposit"`
	Publisher      Publisher   `json:"publisher"`
	Views          int         `json:"views"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Public reshapes the joined row for the public API.
func (l *ListingWithOwner) Public() PublicListing {
	return PublicListing{
		ID:             l.ID,
		Title:          l.Title,
		Description:    l.Description,
		Type:           l.Type,
		Mode:           l.Mode,
		Price:          l.Price,
		PriceType:      l.PriceType,
		Location:       l.Location,
		AvailableSpots: l.AvailableSpots,
		TotalSpots:     l.TotalSpots,
		Contact:        l.ContactPhone,
		Deposit:        l.Caution,
		Publisher: Publisher{
			Name:        l.OwnerFirstName + " " + l.OwnerLastName,
			Role:        l.OwnerRole,
			Verified:    l.OwnerVerified,
			MemberSince: l.OwnerSince,
		},
		Views:     l.Views,
		CreatedAt: l.CreatedAt,
	}
}

// AdminListingOwner is the owner contact block on the moderation view.
type AdminListingOwner struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Role      UserRole `json:"role"`
}

// AdminListing is the moderation view of a listing.
type AdminListing struct {
	Listing
	Owner AdminListingOwner `json:"user"`
}

// Admin reshapes the joined row for the moderation API.
func (l *ListingWithOwner) Admin() AdminListing {
	return AdminListing{
		Listing: l.Listing,
		Owner: AdminListingOwner{
			FirstName: l.OwnerFirstName,
			LastName:  l.OwnerLastName,
			Email:     l.OwnerEmail,
			Phone:     l.OwnerPhone,
			Role:      l.OwnerRole,
		},
	}
}

// CreateListingRequest holds the submission payload.
type CreateListingRequest struct {
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description" validate:"required"`
	Type           string `json:"type" validate:"required,oneof=room apartment house"`
	Mode           string `json:"mode" validate:"required,oneof=colocation classic"`
	Price          int    `json:"price" validate:"required,gt=0"`
	PriceType      string `json:"priceType" validate:"omitempty,oneof=total per_person"`
	Location       string `json:"location" validate:"required"`
	AvailableSpots int    `json:"availableSpots"`
	Contact        string `json:"contact" validate:"required"`
	CautionAmount  int    `json:"cautionAmount" validate:"gte=0"`
}

// ListingFilter captures the public search parameters.
type ListingFilter struct {
	Search   string
	Type     string
	Mode     string
	MaxPrice int
	Caution  string
	Page     int
	Limit    int
}

// ValidationAction is the moderation transition applied to a listing.
type ValidationAction string

const (
	ValidationApprove ValidationAction = "approve"
	ValidationReject  ValidationAction = "reject"
)

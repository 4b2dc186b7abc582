// Package items defines the canonical item model and normalizes the
// backend's heterogeneous item records into it.
//
// The backend has grown several response shapes over time: versioned vs.
// legacy endpoints, snake_case vs. camelCase keys, and fields that were
// renamed between API revisions. All of that variance is absorbed here so
// the rest of the client only ever sees one Item type.
package items

// Type says whether an item was reported lost or found.
type Type string

const (
	TypeLost  Type = "lost"
	TypeFound Type = "found"
)

// Status tracks an item's lifecycle on the backend.
type Status string

const (
	StatusOpen    Status = "open"
	StatusMatched Status = "matched"
	StatusClaimed Status = "claimed"
	StatusClosed  Status = "closed"
)

// Category is a coarse item classification.
type Category string

const (
	CategoryPhone       Category = "phone"
	CategoryWallet      Category = "wallet"
	CategoryBag         Category = "bag"
	CategoryID          Category = "id"
	CategoryKeys        Category = "keys"
	CategoryJewelry     Category = "jewelry"
	CategoryElectronics Category = "electronics"
	CategoryDocuments   Category = "documents"
	CategoryClothing    Category = "clothing"
	CategoryAccessories Category = "accessories"
	CategoryOther       Category = "other"
)

// ContactMethod is the reporter's preferred way to be reached.
type ContactMethod string

const (
	ContactInApp ContactMethod = "in_app"
	ContactPhone ContactMethod = "phone"
	ContactEmail ContactMethod = "email"
)

// Item is the canonical client-side projection of a backend item record.
// Instances are derived fresh from each response and never mutated.
type Item struct {
	ID             string
	Type           Type
	Status         Status
	Title          string
	Description    string
	Category       Category
	ImageURL       string
	Location       string
	LocationDetail string
	DateTime       string
	ContactMethod  ContactMethod
	ContactPhone   string
	ContactEmail   string
	UserID         string
	CreatedAt      string
	UpdatedAt      string
}

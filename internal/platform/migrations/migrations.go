package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts plus the number sequences.
// Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&customerRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&registrationRecord{},
		&messageRecord{},
		&serviceRecord{},
		&couponRecord{},
		&reviewRecord{},
	); err != nil {
		return err
	}
	for _, stmt := range []string{
		"CREATE SEQUENCE IF NOT EXISTS order_number_seq START 1",
		"CREATE SEQUENCE IF NOT EXISTS registration_number_seq START 1",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// Customer schema mirrors the customers Postgres adapter.
type customerRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:36"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	FullName  string    `gorm:"column:full_name"`
	Role      string    `gorm:"column:role;type:varchar(16)"`
	Locale    string    `gorm:"column:locale;type:varchar(8)"`
	AvatarURL string    `gorm:"column:avatar_url"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "profiles" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID          string     `gorm:"primaryKey;column:id;size:36"`
	OrderNumber string     `gorm:"column:order_number;uniqueIndex"`
	CustomerID  string     `gorm:"column:customer_id;size:36;index"`
	Status      string     `gorm:"column:status;type:varchar(32);index"`
	TotalAmount float64    `gorm:"column:total_amount"`
	Currency    string     `gorm:"column:currency;type:varchar(8)"`
	AdminNotes  string     `gorm:"column:admin_notes"`
	Locale      string     `gorm:"column:locale;type:varchar(8)"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;index"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID         string    `gorm:"primaryKey;column:id;size:36"`
	OrderID    string    `gorm:"column:order_id;size:36;index"`
	ServiceID  string    `gorm:"column:service_id;size:36;index"`
	Quantity   int32     `gorm:"column:quantity"`
	UnitPrice  float64   `gorm:"column:unit_price"`
	TotalPrice float64   `gorm:"column:total_price"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Registration schema mirrors the registrations Postgres adapter.
type registrationRecord struct {
	ID                 string     `gorm:"primaryKey;column:id;size:36"`
	RegistrationNumber string     `gorm:"column:registration_number;uniqueIndex"`
	CustomerID         string     `gorm:"column:customer_id;size:36;index"`
	OrderID            string     `gorm:"column:order_id;size:36"`
	OrderItemID        string     `gorm:"column:order_item_id;size:36"`
	PetName            string     `gorm:"column:pet_name"`
	PetSpecies         string     `gorm:"column:pet_species"`
	PetBreed           string     `gorm:"column:pet_breed"`
	PetColor           string     `gorm:"column:pet_color"`
	PetWeightKg        *float64   `gorm:"column:pet_weight_kg"`
	PetDateOfBirth     *time.Time `gorm:"column:pet_date_of_birth"`
	PetPhotoURL        string     `gorm:"column:pet_photo_url"`
	HandlerName        string     `gorm:"column:handler_name"`
	Type               string     `gorm:"column:type;type:varchar(8);index"`
	Status             string     `gorm:"column:status;type:varchar(32);index"`
	IsPublic           bool       `gorm:"column:is_public"`
	AdminNotes         string     `gorm:"column:admin_notes"`
	RegistrationDate   time.Time  `gorm:"column:registration_date"`
	ExpiryDate         *time.Time `gorm:"column:expiry_date;index"`
	CreatedAt          time.Time  `gorm:"column:created_at;index"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (registrationRecord) TableName() string { return "pet_registrations" }

// Message schema mirrors the messages Postgres adapter.
type messageRecord struct {
	ID         string    `gorm:"primaryKey;column:id;size:36"`
	Name       string    `gorm:"column:name"`
	Email      string    `gorm:"column:email;index"`
	Subject    string    `gorm:"column:subject"`
	Body       string    `gorm:"column:body"`
	Status     string    `gorm:"column:status;type:varchar(16);index"`
	AdminNotes string    `gorm:"column:admin_notes"`
	AssignedTo string    `gorm:"column:assigned_to"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (messageRecord) TableName() string { return "contact_messages" }

// Catalog schemas mirror the catalog Postgres adapter.
type serviceRecord struct {
	ID          string         `gorm:"primaryKey;column:id;size:36"`
	Name        string         `gorm:"column:name"`
	Description string         `gorm:"column:description"`
	Price       float64        `gorm:"column:price"`
	Currency    string         `gorm:"column:currency;type:varchar(8)"`
	Features    pq.StringArray `gorm:"column:features;type:text[]"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	Active      bool           `gorm:"column:active;index"`
	Featured    bool           `gorm:"column:featured"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (serviceRecord) TableName() string { return "services" }

type couponRecord struct {
	ID            string     `gorm:"primaryKey;column:id;size:36"`
	Code          string     `gorm:"column:code;uniqueIndex"`
	Description   string     `gorm:"column:description"`
	DiscountType  string     `gorm:"column:discount_type;type:varchar(16)"`
	DiscountValue float64    `gorm:"column:discount_value"`
	ValidFrom     *time.Time `gorm:"column:valid_from"`
	ValidUntil    *time.Time `gorm:"column:valid_until"`
	Active        bool       `gorm:"column:active;index"`
	CreatedAt     time.Time  `gorm:"column:created_at;index"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (couponRecord) TableName() string { return "coupons" }

type reviewRecord struct {
	ID            string    `gorm:"primaryKey;column:id;size:36"`
	CustomerID    string    `gorm:"column:customer_id;size:36;index"`
	ServiceID     string    `gorm:"column:service_id;size:36;index"`
	Rating        int32     `gorm:"column:rating"`
	Title         string    `gorm:"column:title"`
	Body          string    `gorm:"column:body"`
	Published     bool      `gorm:"column:published;index"`
	AdminResponse string    `gorm:"column:admin_response"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (reviewRecord) TableName() string { return "reviews" }

package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tonkonan/materrax/internal/models"
)

// DemoPassword is shared by every demo account.
const DemoPassword = "demo123"

type Reliability struct {
	Score           int    `json:"score"`
	Status          string `json:"status"`
	ViolationsCount int    `json:"violations_count"`
	Verified        bool   `json:"verified"`
}

// SupplierProfile is display data for a carrier. It is not persisted.
type SupplierProfile struct {
	LegalEntityName string      `json:"legal_entity_name"`
	LegalEntityINN  string      `json:"legal_entity_inn"`
	AddressFull     string      `json:"address_full"`
	AddressCity     string      `json:"address_city"`
	AddressRegion   string      `json:"address_region"`
	Reliability     Reliability `json:"reliability"`
}

type DemoUser struct {
	Email   string
	Role    models.Role
	Company string
	Profile *SupplierProfile
}

type DemoRequest struct {
	Key          string
	Owner        string
	Material     string
	FromLocation string
	ToLocation   string
	Volume       decimal.Decimal
	Description  string
	Age          time.Duration
}

type DemoOffer struct {
	RequestKey   string
	Owner        string
	Price        decimal.Decimal
	DeliveryTime int
	Comment      string
	Age          time.Duration
}

var Users = []DemoUser{
	{Email: "buyer1@test.com", Role: models.RoleBuyer, Company: "StroyMaterialy LLC"},
	{Email: "buyer2@test.com", Role: models.RoleBuyer, Company: "IE Ivanov I.I."},
	{
		Email: "supplier1@test.com", Role: models.RoleSupplier, Company: "TransLogistic LLC",
		Profile: &SupplierProfile{
			LegalEntityName: "TransLogistic LLC",
			LegalEntityINN:  "7702345678",
			AddressFull:     "Moscow, Transportnaya st. 15, warehouse 3",
			AddressCity:     "Moscow",
			AddressRegion:   "Moscow region",
			Reliability:     Reliability{Score: 88, Status: "active", ViolationsCount: 2, Verified: true},
		},
	},
	{
		Email: "supplier2@test.com", Role: models.RoleSupplier, Company: "Fast Delivery LLC",
		Profile: &SupplierProfile{
			LegalEntityName: "Fast Delivery LLC",
			LegalEntityINN:  "7703456789",
			AddressFull:     "Moscow, Logisticheskaya st. 8",
			AddressCity:     "Moscow",
			AddressRegion:   "Moscow region",
			Reliability:     Reliability{Score: 45, Status: "active", ViolationsCount: 8, Verified: true},
		},
	},
	{
		Email: "supplier3@test.com", Role: models.RoleSupplier, Company: "IE Petrov P.P.",
		Profile: &SupplierProfile{
			LegalEntityName: "IE Petrov Petr Petrovich",
			LegalEntityINN:  "781345678901",
			AddressFull:     "Saint Petersburg, Gruzovaya st. 12",
			AddressCity:     "Saint Petersburg",
			AddressRegion:   "Leningrad region",
			Reliability:     Reliability{Score: 60, Status: "active", ViolationsCount: 5, Verified: true},
		},
	},
	{
		Email: "supplier4@test.com", Role: models.RoleSupplier, Company: "Reliable Carrier LLC",
		Profile: &SupplierProfile{
			LegalEntityName: "Reliable Carrier LLC",
			LegalEntityINN:  "7704567890",
			AddressFull:     "Moscow, Nadezhnaya st. 20, office 10",
			AddressCity:     "Moscow",
			AddressRegion:   "Moscow region",
			Reliability:     Reliability{Score: 98, Status: "active", ViolationsCount: 0, Verified: true},
		},
	},
}

var Requests = []DemoRequest{
	{
		Key:          "sand",
		Owner:        "buyer1@test.com",
		Material:     "Construction sand",
		FromLocation: `Moscow region, Podolsk, "Severny" quarry`,
		ToLocation:   "Moscow, Stroiteley st. 10",
		Volume:       decimal.NewFromInt(50),
		Description:  "Sand for construction, delivery within a week",
	},
	{
		Key:          "granite",
		Owner:        "buyer2@test.com",
		Material:     "Granite crushed stone",
		FromLocation: `Leningrad region, Vyborg, "Granit" quarry`,
		ToLocation:   "Saint Petersburg, Nevsky pr. 25",
		Volume:       decimal.NewFromInt(30),
		Description:  "Fraction 20-40 for road works",
		Age:          24 * time.Hour,
	},
	{
		Key:          "cement",
		Owner:        "buyer1@test.com",
		Material:     "Cement M500",
		FromLocation: "Moscow, Promyshlennaya st. 5",
		ToLocation:   "Moscow, Stroiteley st. 10",
		Volume:       decimal.NewFromInt(20),
		Description:  "Cement in 50 kg bags, 400 bags",
		Age:          48 * time.Hour,
	},
}

var Offers = []DemoOffer{
	{
		RequestKey:   "sand",
		Owner:        "supplier1@test.com",
		Price:        decimal.NewFromInt(15000),
		DeliveryTime: 3,
		Comment:      "Experienced with construction materials, all documents in order",
	},
	{
		RequestKey:   "sand",
		Owner:        "supplier2@test.com",
		Price:        decimal.NewFromInt(18000),
		DeliveryTime: 5,
		Comment:      "Fast delivery, working 24/7",
	},
	{
		RequestKey:   "granite",
		Owner:        "supplier3@test.com",
		Price:        decimal.NewFromInt(12000),
		DeliveryTime: 7,
		Comment:      "Lowest price, quality guaranteed",
		Age:          time.Hour,
	},
	{
		RequestKey:   "cement",
		Owner:        "supplier4@test.com",
		Price:        decimal.NewFromInt(20000),
		DeliveryTime: 2,
		Comment:      "Premium service, cargo insurance included",
		Age:          2 * time.Hour,
	},
}

// Profile returns the supplier profile registered for email, if any.
func Profile(email string) (*SupplierProfile, bool) {
	for _, u := range Users {
		if u.Email == email && u.Profile != nil {
			return u.Profile, true
		}
	}
	return nil, false
}

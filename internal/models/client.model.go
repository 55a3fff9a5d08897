package models

import "strings"

const (
	MinDependentSlots = 3
	MaxDependentSlots = 7
)

type Client struct {
	BaseUUIDModel
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Year            int             `gorm:"type:int" json:"year"`
	MigratoryStatus MigratoryStatus `gorm:"type:varchar(32)" json:"migratoryStatus"`
	TaxID           string          `gorm:"column:tax_id;type:varchar(32)" json:"taxId"`
	ImmigrationID   string          `gorm:"column:immigration_id;type:varchar(32)" json:"immigrationId"`
	DateOfBirth     string          `gorm:"type:varchar(32)" json:"dob"`
	Age             int             `gorm:"type:int" json:"age"`
	Street          string          `gorm:"type:varchar(255)" json:"street"`
	City            string          `gorm:"type:varchar(255)" json:"city"`
	State           string          `gorm:"type:varchar(255)" json:"state"`
	PostalCode      string          `gorm:"type:varchar(16)" json:"postalCode"`
	County          string          `gorm:"type:varchar(255)" json:"county"`
	Phone           string          `gorm:"type:varchar(32)" json:"phone"`
	Email           string          `gorm:"type:varchar(255)" json:"email"`

	DependentCount string  `gorm:"type:varchar(32)" json:"dependentCount"`
	Employer       string  `gorm:"type:varchar(255)" json:"employer"`
	Occupation     string  `gorm:"type:varchar(255)" json:"occupation"`
	Income1        float64 `gorm:"column:income1;type:double precision" json:"income1"`
	Income2        float64 `gorm:"column:income2;type:double precision" json:"income2"`
	TotalIncome    float64 `gorm:"type:double precision" json:"totalIncome"`

	// Banking and card fields are stored as entered, without encryption.
	BankName          string `gorm:"type:varchar(255)" json:"bankName"`
	RoutingNumber     string `gorm:"type:varchar(32)" json:"routingNumber"`
	AccountNumber     string `gorm:"type:varchar(64)" json:"accountNumber"`
	AccountHolderName string `gorm:"type:varchar(255)" json:"accountHolderName"`
	CardLast4         string `gorm:"column:card_last4;type:varchar(4)" json:"cardLast4"`
	CardExpiry        string `gorm:"type:varchar(16)" json:"cardExpiry"`
	CardCVC           string `gorm:"column:card_cvc;type:varchar(4)" json:"cardCvc"`
	CardholderName    string `gorm:"type:varchar(255)" json:"cardholderName"`

	Carrier          Carrier `gorm:"type:varchar(64)" json:"carrier"`
	PlanName         string  `gorm:"type:varchar(255)" json:"planName"`
	PlanID           string  `gorm:"column:plan_id;type:varchar(64)" json:"planId"`
	HMO              bool    `gorm:"column:hmo;type:boolean" json:"hmo"`
	PPO              bool    `gorm:"column:ppo;type:boolean" json:"ppo"`
	MarketplaceID    string  `gorm:"column:marketplace_id;type:varchar(64)" json:"marketplaceId"`
	Premium          float64 `gorm:"type:double precision" json:"premium"`
	Deductible       float64 `gorm:"type:double precision" json:"deductible"`
	CoInsurance      string  `gorm:"type:varchar(255)" json:"coInsurance"`
	MaxOutOfPocket   float64 `gorm:"type:double precision" json:"maxOutOfPocket"`
	PrimaryDoctor    string  `gorm:"type:text" json:"primaryDoctor"`
	Specialist       string  `gorm:"type:text" json:"specialist"`
	UrgentCare       string  `gorm:"type:text" json:"urgentCare"`
	Emergency        string  `gorm:"type:text" json:"emergency"`
	GenericMedicine  string  `gorm:"type:text" json:"genericMedication"`
	Lab              string  `gorm:"type:text" json:"lab"`
	Prescription     string  `gorm:"type:text" json:"prescription"`

	TemporaryProtectedStatus string `gorm:"type:text" json:"tps"`
	Parole                   string `gorm:"type:text" json:"parole"`
	WorkPermit               string `gorm:"type:text" json:"workPermit"`
	Notes                    string `gorm:"type:text" json:"notes"`

	Dependents []Dependent `gorm:"type:text;serializer:json" json:"dependents"`
}

// Dependent lives only inside its client's row. ID is a placeholder id
// scoped to one edit session.
type Dependent struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	DateOfBirth              string          `json:"dob"`
	Age                      int             `json:"age"`
	LegalStatus              MigratoryStatus `json:"legalStatus"`
	TaxID                    string          `json:"taxId"`
	Income                   float64         `json:"income"`
	AppliesToInsurance       bool            `json:"appliesToInsurance"`
	TemporaryProtectedStatus string          `json:"tps"`
}

// IsReal reports whether the dependent carries a name and is therefore
// eligible for persistence.
func (d Dependent) IsReal() bool {
	return strings.TrimSpace(d.Name) != ""
}

func RealDependents(dependents []Dependent) []Dependent {
	named := make([]Dependent, 0, len(dependents))
	for _, dependent := range dependents {
		if dependent.IsReal() {
			named = append(named, dependent)
		}
	}
	return named
}

type ClientStats struct {
	Clients          int     `json:"clients"`
	Dependents       int     `json:"dependents"`
	AverageIncome    float64 `json:"averageIncome"`
	DistinctCarriers int     `json:"distinctCarriers"`
}

func SummarizeClients(clients []Client) ClientStats {
	stats := ClientStats{Clients: len(clients)}
	if len(clients) == 0 {
		return stats
	}

	carriers := make(map[Carrier]struct{})
	var income float64
	for _, client := range clients {
		stats.Dependents += len(client.Dependents)
		income += client.TotalIncome
		carriers[client.Carrier] = struct{}{}
	}

	stats.AverageIncome = income / float64(len(clients))
	stats.DistinctCarriers = len(carriers)
	return stats
}

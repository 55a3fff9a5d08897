package seed

import (
	"time"

	"agency/config"
	"agency/internal/forms"
	"agency/internal/logger"
	. "agency/internal/models"

	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	users := []User{
		{
			DisplayName: "Carmen Diaz",
			Email:       stringPtr("carmen.diaz@example.com"),
			Login:       "carmen",
			Password:    "password",
			IsAdmin:     true,
		}, {
			DisplayName: "Luis Ortega",
			Email:       stringPtr("luis.ortega@example.com"),
			Login:       "luis",
			Password:    "password",
			IsAdmin:     false,
		},
	}

	for _, user := range users {
		var existingUser User
		if err := db.First(&existingUser, "login = ?", user.Login).Error; err == nil {
			log.Info("User already exists", "login", user.Login)
			continue
		}
		log.Info("Seeding user", "login", user.Login)
		if err := db.Create(&user).Error; err != nil {
			log.Er("failed to create user", err, "login", user.Login)
		}
	}

	now := time.Now()
	for _, client := range demoClients() {
		var existing Client
		if err := db.First(&existing, "email = ?", client.Email).Error; err == nil {
			log.Info("Client already exists", "email", client.Email)
			continue
		}

		client = forms.Normalize(client, now)
		if err := forms.Validate(client); err != nil {
			log.Er("demo client is invalid", err, "email", client.Email)
			continue
		}
		if err := db.Create(&client).Error; err != nil {
			log.Er("failed to create client", err, "email", client.Email)
		}
	}

	return nil
}

func demoClients() []Client {
	return []Client{
		{
			Name:            "Maria Lopez",
			Email:           "maria.lopez@example.com",
			Year:            2026,
			MigratoryStatus: StatusResident,
			TaxID:           "123456789",
			DateOfBirth:     "03/14/1985",
			Phone:           "3055550100",
			Street:          "120 NW 7th St",
			City:            "Miami",
			State:           "Florida",
			PostalCode:      "33136",
			Income1:         2800,
			Income2:         950,
			Carrier:         CarrierOscar,
			PlanName:        "Silver Classic",
			HMO:             true,
			Premium:         112.40,
			Dependents: []Dependent{
				{Name: "Sofia Lopez", DateOfBirth: "2015-06-02", LegalStatus: StatusCitizen, AppliesToInsurance: true},
				{Name: "Mateo Lopez", DateOfBirth: "2018-11-20", LegalStatus: StatusCitizen, AppliesToInsurance: true},
			},
		},
		{
			Name:            "Jose Ruiz",
			Email:           "jose.ruiz@example.com",
			Year:            2026,
			MigratoryStatus: StatusWorkPermit,
			ImmigrationID:   "123456789",
			DateOfBirth:     "1979-01-30",
			Phone:           "8135550199",
			City:            "Tampa",
			State:           "Florida",
			Income1:         4100,
			Carrier:         CarrierAmbetter,
			PPO:             true,
			Notes:           "Prefers calls after 5pm",
		},
	}
}

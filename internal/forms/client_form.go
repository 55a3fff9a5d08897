package forms

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"agency/internal/models"
	"agency/internal/utils"
)

// Edit is a single keystroke-level change to one client field, addressed by
// its JSON name.
type Edit struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type fieldSetter func(c *models.Client, value string) error

func text(set func(c *models.Client, value string)) fieldSetter {
	return func(c *models.Client, value string) error {
		set(c, value)
		return nil
	}
}

func formatted(format utils.FormatFunc, set func(c *models.Client, value string)) fieldSetter {
	return text(func(c *models.Client, value string) {
		set(c, format(value))
	})
}

func amount(set func(c *models.Client, value float64)) fieldSetter {
	return text(func(c *models.Client, value string) {
		set(c, parseAmount(value))
	})
}

func flag(set func(c *models.Client, value bool)) fieldSetter {
	return func(c *models.Client, value string) error {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidValue, value)
		}
		set(c, parsed)
		return nil
	}
}

var clientFields = map[string]fieldSetter{
	"name": text(func(c *models.Client, v string) { c.Name = v }),
	"year": func(c *models.Client, v string) error {
		year, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidValue, v)
		}
		c.Year = year
		return nil
	},
	"migratoryStatus": text(func(c *models.Client, v string) { c.MigratoryStatus = models.MigratoryStatus(v) }),
	"taxId":           formatted(utils.FormatTaxID, func(c *models.Client, v string) { c.TaxID = v }),
	"immigrationId":   formatted(utils.FormatImmigrationID, func(c *models.Client, v string) { c.ImmigrationID = v }),
	"dob":             text(func(c *models.Client, v string) { c.DateOfBirth = v }),
	"street":          text(func(c *models.Client, v string) { c.Street = v }),
	"city":            text(func(c *models.Client, v string) { c.City = v }),
	"state":           text(func(c *models.Client, v string) { c.State = v }),
	"postalCode":      formatted(utils.FormatPostalCode, func(c *models.Client, v string) { c.PostalCode = v }),
	"county":          text(func(c *models.Client, v string) { c.County = v }),
	"phone":           formatted(utils.FormatPhone, func(c *models.Client, v string) { c.Phone = v }),
	"email":           text(func(c *models.Client, v string) { c.Email = v }),

	"dependentCount": text(func(c *models.Client, v string) { c.DependentCount = v }),
	"employer":       text(func(c *models.Client, v string) { c.Employer = v }),
	"occupation":     text(func(c *models.Client, v string) { c.Occupation = v }),
	"income1":        amount(func(c *models.Client, v float64) { c.Income1 = v }),
	"income2":        amount(func(c *models.Client, v float64) { c.Income2 = v }),

	"bankName":          text(func(c *models.Client, v string) { c.BankName = v }),
	"routingNumber":     text(func(c *models.Client, v string) { c.RoutingNumber = v }),
	"accountNumber":     text(func(c *models.Client, v string) { c.AccountNumber = v }),
	"accountHolderName": text(func(c *models.Client, v string) { c.AccountHolderName = v }),
	"cardLast4":         formatted(utils.FormatCardLast4, func(c *models.Client, v string) { c.CardLast4 = v }),
	"cardExpiry":        formatted(utils.FormatCardExpiry, func(c *models.Client, v string) { c.CardExpiry = v }),
	"cardCvc":           formatted(utils.FormatCardCVC, func(c *models.Client, v string) { c.CardCVC = v }),
	"cardholderName":    text(func(c *models.Client, v string) { c.CardholderName = v }),

	"carrier":           text(func(c *models.Client, v string) { c.Carrier = models.Carrier(v) }),
	"planName":          text(func(c *models.Client, v string) { c.PlanName = v }),
	"planId":            text(func(c *models.Client, v string) { c.PlanID = v }),
	"hmo":               flag(func(c *models.Client, v bool) { c.HMO = v }),
	"ppo":               flag(func(c *models.Client, v bool) { c.PPO = v }),
	"marketplaceId":     text(func(c *models.Client, v string) { c.MarketplaceID = v }),
	"premium":           amount(func(c *models.Client, v float64) { c.Premium = v }),
	"deductible":        amount(func(c *models.Client, v float64) { c.Deductible = v }),
	"coInsurance":       text(func(c *models.Client, v string) { c.CoInsurance = v }),
	"maxOutOfPocket":    amount(func(c *models.Client, v float64) { c.MaxOutOfPocket = v }),
	"primaryDoctor":     text(func(c *models.Client, v string) { c.PrimaryDoctor = v }),
	"specialist":        text(func(c *models.Client, v string) { c.Specialist = v }),
	"urgentCare":        text(func(c *models.Client, v string) { c.UrgentCare = v }),
	"emergency":         text(func(c *models.Client, v string) { c.Emergency = v }),
	"genericMedication": text(func(c *models.Client, v string) { c.GenericMedicine = v }),
	"lab":               text(func(c *models.Client, v string) { c.Lab = v }),
	"prescription":      text(func(c *models.Client, v string) { c.Prescription = v }),

	"tps":        text(func(c *models.Client, v string) { c.TemporaryProtectedStatus = v }),
	"parole":     text(func(c *models.Client, v string) { c.Parole = v }),
	"workPermit": text(func(c *models.Client, v string) { c.WorkPermit = v }),
	"notes":      text(func(c *models.Client, v string) { c.Notes = v }),
}

var readOnlyFields = map[string]bool{
	"id":          true,
	"age":         true,
	"totalIncome": true,
	"createdAt":   true,
	"updatedAt":   true,
	"dependents":  true,
}

func NewClient(now time.Time) models.Client {
	return models.Client{
		Year:            now.Year(),
		MigratoryStatus: models.StatusResident,
		Carrier:         models.CarrierFloridaBlue,
		Dependents:      []models.Dependent{},
	}
}

// Reduce applies edit to state and returns the new record with every derived
// field recomputed. state is not modified.
func Reduce(state models.Client, edit Edit, now time.Time) (models.Client, error) {
	if readOnlyFields[edit.Field] {
		return state, fmt.Errorf("%w: %s", ErrReadOnlyField, edit.Field)
	}
	set, ok := clientFields[edit.Field]
	if !ok {
		return state, fmt.Errorf("%w: %s", ErrUnknownField, edit.Field)
	}

	next := state
	next.Dependents = append([]models.Dependent(nil), state.Dependents...)
	if err := set(&next, edit.Value); err != nil {
		return state, err
	}
	return Derive(next, now), nil
}

// Derive recomputes age and total income on the client and age on each of
// its dependents.
func Derive(c models.Client, now time.Time) models.Client {
	c.Age = utils.AgeFromString(c.DateOfBirth, now)
	c.TotalIncome = utils.TotalIncome(c.Income1, c.Income2)

	if c.Dependents != nil {
		dependents := make([]models.Dependent, len(c.Dependents))
		for i, dependent := range c.Dependents {
			dependent.Age = utils.AgeFromString(dependent.DateOfBirth, now)
			dependents[i] = dependent
		}
		c.Dependents = dependents
	}
	return c
}

// Normalize prepares a fully submitted record for storage: every formatter
// is re-applied, birth dates are stored as YYYY-MM-DD when they parse,
// unnamed dependents are dropped and derived fields are recomputed.
func Normalize(c models.Client, now time.Time) models.Client {
	c.DateOfBirth = utils.NormalizeDate(c.DateOfBirth)
	c.TaxID = utils.FormatTaxID(c.TaxID)
	c.ImmigrationID = utils.FormatImmigrationID(c.ImmigrationID)
	c.Phone = utils.FormatPhone(c.Phone)
	c.PostalCode = utils.FormatPostalCode(c.PostalCode)
	c.CardLast4 = utils.FormatCardLast4(c.CardLast4)
	c.CardExpiry = utils.FormatCardExpiry(c.CardExpiry)
	c.CardCVC = utils.FormatCardCVC(c.CardCVC)

	dependents := models.RealDependents(c.Dependents)
	for i := range dependents {
		dependents[i].TaxID = utils.FormatTaxID(dependents[i].TaxID)
		dependents[i].DateOfBirth = utils.NormalizeDate(dependents[i].DateOfBirth)
	}
	c.Dependents = dependents

	return Derive(c, now)
}

// Validate reports the problems that block saving c.
func Validate(c models.Client) error {
	var verr ValidationError

	if strings.TrimSpace(c.Name) == "" {
		verr.add("name", "name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		verr.add("email", "email is required")
	}
	if c.MigratoryStatus != "" && !c.MigratoryStatus.Valid() {
		verr.add("migratoryStatus", fmt.Sprintf("unknown migratory status %q", c.MigratoryStatus))
	}
	if c.Carrier != "" && !c.Carrier.Valid() {
		verr.add("carrier", fmt.Sprintf("unknown carrier %q", c.Carrier))
	}
	if len(models.RealDependents(c.Dependents)) > models.MaxDependentSlots {
		verr.add("dependents", fmt.Sprintf("at most %d dependents", models.MaxDependentSlots))
	}
	for i, dependent := range c.Dependents {
		if dependent.LegalStatus != "" && !dependent.LegalStatus.Valid() {
			verr.add(fmt.Sprintf("dependents[%d].legalStatus", i), fmt.Sprintf("unknown legal status %q", dependent.LegalStatus))
		}
	}

	if len(verr.Fields) > 0 {
		return &verr
	}
	return nil
}

func parseAmount(value string) float64 {
	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(value)
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return amount
}

package forms

import (
	"fmt"
	"strconv"
	"time"

	"agency/internal/models"
	"agency/internal/utils"

	"github.com/google/uuid"
)

// ChangeFunc receives the named dependents after every change to the list.
type ChangeFunc func(dependents []models.Dependent)

// DependentList manages the bounded set of dependent slots shown for one
// client. Only named dependents are reported to the owner.
type DependentList struct {
	slots     []models.Dependent
	slotCount int
	onChange  ChangeFunc
	now       func() time.Time
}

type DependentListOption func(*DependentList)

func WithClock(now func() time.Time) DependentListOption {
	return func(l *DependentList) {
		l.now = now
	}
}

func WithSlotCount(count int) DependentListOption {
	return func(l *DependentList) {
		if count > 0 {
			l.slotCount = clampSlots(count)
		}
	}
}

func NewDependentList(existing []models.Dependent, onChange ChangeFunc, opts ...DependentListOption) *DependentList {
	l := &DependentList{
		slots:     append([]models.Dependent(nil), existing...),
		slotCount: clampSlots(len(existing)),
		onChange:  onChange,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.EnsureSlots()
	return l
}

func clampSlots(count int) int {
	return min(max(count, models.MinDependentSlots), models.MaxDependentSlots)
}

func (l *DependentList) SlotCount() int {
	return l.slotCount
}

// EnsureSlots pads the list with blank placeholders up to the slot count.
// Slots beyond the count are hidden, not removed.
func (l *DependentList) EnsureSlots() {
	for len(l.slots) < l.slotCount {
		l.slots = append(l.slots, NewPlaceholder())
	}
}

func NewPlaceholder() models.Dependent {
	return models.Dependent{
		ID:          "dep-" + uuid.NewString(),
		LegalStatus: models.StatusResident,
	}
}

func (l *DependentList) Visible() []models.Dependent {
	l.EnsureSlots()
	visible := make([]models.Dependent, l.slotCount)
	copy(visible, l.slots[:l.slotCount])
	return visible
}

func (l *DependentList) Real() []models.Dependent {
	return models.RealDependents(l.slots)
}

func (l *DependentList) Expand() {
	l.slotCount = min(l.slotCount+1, models.MaxDependentSlots)
	l.EnsureSlots()
}

// Collapse hides the last slot. Whatever the slot held is discarded, named
// or not; the named dependents lost this way are returned.
func (l *DependentList) Collapse() []models.Dependent {
	if l.slotCount <= models.MinDependentSlots {
		return nil
	}

	l.slotCount--
	var dropped []models.Dependent
	if len(l.slots) > l.slotCount {
		dropped = models.RealDependents(l.slots[l.slotCount:])
		l.slots = l.slots[:l.slotCount:l.slotCount]
	}
	l.emit()
	return dropped
}

// Update edits one field of the dependent at index and recomputes its age
// when the birth date changes.
func (l *DependentList) Update(index int, field, value string) error {
	if index < 0 || index >= l.slotCount {
		return fmt.Errorf("%w: %d", ErrSlotIndex, index)
	}
	l.EnsureSlots()

	dependent := l.slots[index]
	if err := setDependentField(&dependent, field, value, l.now()); err != nil {
		return err
	}
	l.slots[index] = dependent
	l.emit()
	return nil
}

func (l *DependentList) emit() {
	if l.onChange != nil {
		l.onChange(l.Real())
	}
}

func setDependentField(d *models.Dependent, field, value string, now time.Time) error {
	switch field {
	case "name":
		d.Name = value
	case "dob":
		d.DateOfBirth = value
		d.Age = utils.AgeFromString(value, now)
	case "legalStatus":
		d.LegalStatus = models.MigratoryStatus(value)
	case "taxId", "ss":
		d.TaxID = utils.FormatTaxID(value)
	case "income":
		d.Income = parseAmount(value)
	case "appliesToInsurance":
		applies, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidValue, value)
		}
		d.AppliesToInsurance = applies
	case "tps":
		d.TemporaryProtectedStatus = value
	case "age", "id":
		return fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

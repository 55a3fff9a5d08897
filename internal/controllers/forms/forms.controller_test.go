package formController

import (
	"testing"
	"time"

	"agency/internal/forms"
	. "agency/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController() *FormController {
	fc := New()
	fc.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }
	return fc
}

func TestFormController_NewClient(t *testing.T) {
	client := newController().NewClient()
	assert.Equal(t, 2026, client.Year)
	assert.Equal(t, StatusResident, client.MigratoryStatus)
	assert.Equal(t, CarrierFloridaBlue, client.Carrier)
}

func TestFormController_Edit(t *testing.T) {
	fc := newController()

	client, err := fc.Edit(ClientEditRequest{Client: fc.NewClient(), Field: "dob", Value: "10/15/1996"})
	require.NoError(t, err)
	assert.Equal(t, 29, client.Age)

	_, err = fc.Edit(ClientEditRequest{Client: client, Field: "age", Value: "40"})
	assert.ErrorIs(t, err, forms.ErrReadOnlyField)
}

func TestFormController_Dependents(t *testing.T) {
	fc := newController()

	response, err := fc.Dependents(DependentListRequest{Action: DependentsEnsure})
	require.NoError(t, err)
	assert.Equal(t, 3, response.SlotCount)
	assert.Len(t, response.Slots, 3)
	assert.Empty(t, response.Dependents)

	slots := response.Slots
	response, err = fc.Dependents(DependentListRequest{
		Dependents: slots,
		SlotCount:  3,
		Action:     DependentsUpdate,
		Index:      0,
		Field:      "name",
		Value:      "Nico",
	})
	require.NoError(t, err)
	require.Len(t, response.Dependents, 1)
	assert.Equal(t, slots[0].ID, response.Slots[0].ID)

	for range 5 {
		response, err = fc.Dependents(DependentListRequest{Dependents: response.Slots, SlotCount: response.SlotCount, Action: DependentsExpand})
		require.NoError(t, err)
	}
	assert.Equal(t, 7, response.SlotCount)
	assert.Len(t, response.Dependents, 1)
}

func TestFormController_CollapseReportsDropped(t *testing.T) {
	fc := newController()

	response, err := fc.Dependents(DependentListRequest{
		Dependents: []Dependent{{ID: "a", Name: "Ana"}, {ID: "b"}, {ID: "c"}, {ID: "d", Name: "Dani"}},
		SlotCount:  4,
		Action:     DependentsCollapse,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, response.SlotCount)
	require.Len(t, response.Dropped, 1)
	assert.Equal(t, "Dani", response.Dropped[0].Name)
	require.Len(t, response.Dependents, 1)
	assert.Equal(t, "Ana", response.Dependents[0].Name)
}

func TestFormController_DependentErrors(t *testing.T) {
	fc := newController()

	_, err := fc.Dependents(DependentListRequest{Action: "shuffle"})
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = fc.Dependents(DependentListRequest{Action: DependentsUpdate, Index: 9, Field: "name", Value: "x"})
	assert.ErrorIs(t, err, forms.ErrSlotIndex)
}

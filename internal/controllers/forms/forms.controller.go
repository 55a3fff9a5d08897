package formController

import (
	"errors"
	"fmt"
	"time"

	"agency/internal/forms"
	. "agency/internal/models"
)

var ErrUnknownAction = errors.New("unknown dependent list action")

// FormController runs the client form reducer and dependent slot rules for
// a form held by the browser. It keeps no state between calls.
type FormController struct {
	now func() time.Time
}

func New() *FormController {
	return &FormController{now: time.Now}
}

func (fc *FormController) NewClient() Client {
	return forms.NewClient(fc.now())
}

func (fc *FormController) Edit(request ClientEditRequest) (Client, error) {
	return forms.Reduce(request.Client, forms.Edit{Field: request.Field, Value: request.Value}, fc.now())
}

func (fc *FormController) Dependents(request DependentListRequest) (DependentListResponse, error) {
	var emitted []Dependent
	changed := false
	list := forms.NewDependentList(
		request.Dependents,
		func(dependents []Dependent) {
			emitted = dependents
			changed = true
		},
		forms.WithSlotCount(request.SlotCount),
		forms.WithClock(fc.now),
	)

	var dropped []Dependent
	switch request.Action {
	case DependentsEnsure, "":
		list.EnsureSlots()
	case DependentsExpand:
		list.Expand()
	case DependentsCollapse:
		dropped = list.Collapse()
	case DependentsUpdate:
		if err := list.Update(request.Index, request.Field, request.Value); err != nil {
			return DependentListResponse{}, err
		}
	default:
		return DependentListResponse{}, fmt.Errorf("%w: %s", ErrUnknownAction, request.Action)
	}

	if !changed {
		emitted = list.Real()
	}

	return DependentListResponse{
		SlotCount:  list.SlotCount(),
		Slots:      list.Visible(),
		Dependents: emitted,
		Dropped:    dropped,
	}, nil
}

package reconcile

import (
	"github.com/hcmsync/hcm-sync/internal/connector/hcm"
)

// Tracked field labels on the remote worker document.
const (
	labelWorkEmail      = "Work E-mail"
	labelEmployeeNumber = "Employee Number"
	labelBadgeNumber    = "WFMgr Badge Number"
	labelTrigger        = "WFMgr Trigger"
)

// Field is one flattened scalar: its current remote value and the item id
// needed to mutate it. Both are empty when the document carries no item with
// the tracked label.
type Field struct {
	Value  string
	ItemID string
}

// FlatWorker exposes the tracked fields of one remote worker document as
// named scalars.
type FlatWorker struct {
	AssociateOID   string
	WorkEmail      Field
	EmployeeNumber Field
	BadgeNumber    Field
	Trigger        Field
}

// Flatten extracts the tracked fields from the nested document. Lookups match
// on the item's nameCode value, not position; a missing item yields a
// zero-value Field. Flatten never mutates its input.
func Flatten(w *hcm.Worker) FlatWorker {
	flat := FlatWorker{AssociateOID: w.AssociateOID}

	if w.BusinessCommunication != nil {
		for _, email := range w.BusinessCommunication.Emails {
			if email.NameCode.CodeValue == labelWorkEmail {
				flat.WorkEmail = Field{Value: email.EmailURI, ItemID: email.ItemID}
				break
			}
		}
	}

	flat.EmployeeNumber = stringField(w, labelEmployeeNumber)
	flat.BadgeNumber = stringField(w, labelBadgeNumber)
	flat.Trigger = stringField(w, labelTrigger)

	return flat
}

func stringField(w *hcm.Worker, label string) Field {
	if w.CustomFieldGroup == nil {
		return Field{}
	}
	for _, field := range w.CustomFieldGroup.StringFields {
		if field.NameCode.CodeValue == label {
			return Field{Value: field.StringValue, ItemID: field.ItemID}
		}
	}
	return Field{}
}

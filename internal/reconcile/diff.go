package reconcile

import (
	"github.com/hcmsync/hcm-sync/internal/canonical"
	"github.com/hcmsync/hcm-sync/internal/connector/hcm"
)

// Change is one field-level difference and the event that corrects it.
type Change struct {
	// Field is the logical field name used in run logs.
	Field string

	// Old and New are the remote and canonical values.
	Old string
	New string

	// Event is the ready-to-post change event.
	Event hcm.Event

	// NotifyOnFailure marks fields whose posting failures page an operator
	// rather than only landing in the run log.
	NotifyOnFailure bool
}

// Diff evaluates every tracked field independently and returns the changes to
// post. The rules are not exclusive; one worker can produce several changes.
//
// Work email changes whenever the canonical address differs. Employee number
// and badge number are fill-once: they are only set when the remote value is
// empty, and never overwritten. The trigger propagates whenever the canonical
// record carries a non-empty value.
func Diff(rec canonical.Record, flat FlatWorker) []Change {
	var changes []Change

	if rec.Mail != flat.WorkEmail.Value {
		changes = append(changes, Change{
			Field: "work_email",
			Old:   flat.WorkEmail.Value,
			New:   rec.Mail,
			Event: hcm.EmailChange{
				AssociateOID: rec.AssociateOID,
				Email:        rec.Mail,
			},
			NotifyOnFailure: true,
		})
	}

	if flat.EmployeeNumber.Value == "" {
		changes = append(changes, Change{
			Field: "employee_number",
			Old:   flat.EmployeeNumber.Value,
			New:   rec.EmployeeNumber,
			Event: hcm.CustomFieldChange{
				AssociateOID: rec.AssociateOID,
				ItemID:       flat.EmployeeNumber.ItemID,
				Value:        rec.EmployeeNumber,
			},
		})
	}

	// The badge number is filled from the canonical employee number.
	if flat.BadgeNumber.Value == "" {
		changes = append(changes, Change{
			Field: "wfm_badge_number",
			Old:   flat.BadgeNumber.Value,
			New:   rec.EmployeeNumber,
			Event: hcm.CustomFieldChange{
				AssociateOID: rec.AssociateOID,
				ItemID:       flat.BadgeNumber.ItemID,
				Value:        rec.EmployeeNumber,
			},
		})
	}

	if rec.Trigger != "" {
		changes = append(changes, Change{
			Field: "wfm_trigger",
			Old:   flat.Trigger.Value,
			New:   rec.Trigger,
			Event: hcm.CustomFieldChange{
				AssociateOID: rec.AssociateOID,
				ItemID:       flat.Trigger.ItemID,
				Value:        rec.Trigger,
			},
			NotifyOnFailure: true,
		})
	}

	return changes
}

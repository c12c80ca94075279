package reconcile

import (
	"reflect"
	"testing"

	"github.com/hcmsync/hcm-sync/internal/canonical"
	"github.com/hcmsync/hcm-sync/internal/connector/hcm"
)

func sampleWorker() *hcm.Worker {
	return &hcm.Worker{
		AssociateOID: "G3ABC123",
		BusinessCommunication: &hcm.BusinessCommunication{
			Emails: []hcm.EmailContact{
				{NameCode: hcm.Code{CodeValue: "Personal E-mail"}, EmailURI: "home@example.net", ItemID: "9001"},
				{NameCode: hcm.Code{CodeValue: "Work E-mail"}, EmailURI: "old@example.com", ItemID: "9002"},
			},
		},
		CustomFieldGroup: &hcm.CustomFieldGroup{
			StringFields: []hcm.StringField{
				{NameCode: hcm.Code{CodeValue: "WFMgr Trigger"}, StringValue: "", ItemID: "101"},
				{NameCode: hcm.Code{CodeValue: "Employee Number"}, StringValue: "4242", ItemID: "102"},
				{NameCode: hcm.Code{CodeValue: "WFMgr Badge Number"}, StringValue: "", ItemID: "103"},
			},
		},
	}
}

func TestFlatten_MatchesByLabelNotPosition(t *testing.T) {
	flat := Flatten(sampleWorker())

	if flat.AssociateOID != "G3ABC123" {
		t.Errorf("AssociateOID = %q", flat.AssociateOID)
	}
	if flat.WorkEmail != (Field{Value: "old@example.com", ItemID: "9002"}) {
		t.Errorf("WorkEmail = %+v", flat.WorkEmail)
	}
	if flat.EmployeeNumber != (Field{Value: "4242", ItemID: "102"}) {
		t.Errorf("EmployeeNumber = %+v", flat.EmployeeNumber)
	}
	if flat.BadgeNumber != (Field{Value: "", ItemID: "103"}) {
		t.Errorf("BadgeNumber = %+v", flat.BadgeNumber)
	}
	if flat.Trigger != (Field{Value: "", ItemID: "101"}) {
		t.Errorf("Trigger = %+v", flat.Trigger)
	}
}

func TestFlatten_MissingItemsYieldZeroFields(t *testing.T) {
	flat := Flatten(&hcm.Worker{AssociateOID: "G3EMPTY"})

	if flat.WorkEmail != (Field{}) || flat.EmployeeNumber != (Field{}) ||
		flat.BadgeNumber != (Field{}) || flat.Trigger != (Field{}) {
		t.Errorf("expected zero fields, got %+v", flat)
	}
}

func TestFlatten_Idempotent(t *testing.T) {
	worker := sampleWorker()

	first := Flatten(worker)
	second := Flatten(worker)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated flatten diverged:\n%+v\n%+v", first, second)
	}
}

func TestDiff_IndependentRules(t *testing.T) {
	// Employee number present, badge absent, trigger set: the email change,
	// the badge fill and the trigger propagate fire; the employee number
	// fill does not.
	rec := canonical.Record{
		AssociateOID:   "G3ABC123",
		Mail:           "new@example.com",
		EmployeeNumber: "4242",
		Trigger:        "resync",
	}
	flat := Flatten(sampleWorker())

	changes := Diff(rec, flat)
	if len(changes) != 3 {
		t.Fatalf("changes = %d, want 3: %+v", len(changes), changes)
	}

	email := changes[0]
	if email.Field != "work_email" || email.Old != "old@example.com" || email.New != "new@example.com" {
		t.Errorf("email change = %+v", email)
	}
	if !email.NotifyOnFailure {
		t.Error("email failures should notify")
	}
	if _, ok := email.Event.(hcm.EmailChange); !ok {
		t.Errorf("email event type = %T", email.Event)
	}

	badge := changes[1]
	if badge.Field != "wfm_badge_number" || badge.New != "4242" {
		t.Errorf("badge change = %+v", badge)
	}
	if badge.NotifyOnFailure {
		t.Error("badge fill failures should only be logged")
	}
	badgeEvent, ok := badge.Event.(hcm.CustomFieldChange)
	if !ok {
		t.Fatalf("badge event type = %T", badge.Event)
	}
	if badgeEvent.ItemID != "103" || badgeEvent.Value != "4242" {
		t.Errorf("badge event = %+v", badgeEvent)
	}

	trigger := changes[2]
	if trigger.Field != "wfm_trigger" || trigger.New != "resync" {
		t.Errorf("trigger change = %+v", trigger)
	}
	if !trigger.NotifyOnFailure {
		t.Error("trigger failures should notify")
	}
}

func TestDiff_FillOnceNeverOverwrites(t *testing.T) {
	rec := canonical.Record{
		AssociateOID:   "G3ABC123",
		Mail:           "old@example.com",
		EmployeeNumber: "9999",
	}
	flat := FlatWorker{
		AssociateOID:   "G3ABC123",
		WorkEmail:      Field{Value: "old@example.com", ItemID: "9002"},
		EmployeeNumber: Field{Value: "4242", ItemID: "102"},
		BadgeNumber:    Field{Value: "4242", ItemID: "103"},
	}

	if changes := Diff(rec, flat); len(changes) != 0 {
		t.Errorf("populated fields must not be overwritten: %+v", changes)
	}
}

func TestDiff_TriggerPropagatesUnconditionally(t *testing.T) {
	rec := canonical.Record{
		AssociateOID: "G3ABC123",
		Mail:         "same@example.com",
		Trigger:      "resync",
	}
	flat := FlatWorker{
		AssociateOID:   "G3ABC123",
		WorkEmail:      Field{Value: "same@example.com"},
		EmployeeNumber: Field{Value: "1", ItemID: "102"},
		BadgeNumber:    Field{Value: "1", ItemID: "103"},
		Trigger:        Field{Value: "resync", ItemID: "101"},
	}

	changes := Diff(rec, flat)
	if len(changes) != 1 || changes[0].Field != "wfm_trigger" {
		t.Fatalf("changes = %+v, want only the trigger", changes)
	}
	// The trigger fires even when the remote value already matches.
	if changes[0].Old != "resync" || changes[0].New != "resync" {
		t.Errorf("trigger change = %+v", changes[0])
	}
}

package hcm

// =============================================================================
// WORKER CHANGE EVENTS
// Two event shapes exist on the wire: a business e-mail change and a custom
// string-field change. Each variant carries only the fields it needs and is
// serialized to the platform's envelope at the boundary.
// =============================================================================

// Event is a worker change event ready to post.
type Event interface {
	// Subresource names the endpoint segment for this event kind.
	Subresource() string

	envelope() eventEnvelope
}

// EmailChange updates the worker's business e-mail address.
type EmailChange struct {
	AssociateOID string
	Email        string
}

// Subresource implements Event.
func (e EmailChange) Subresource() string { return "business-communication.email" }

func (e EmailChange) envelope() eventEnvelope {
	return eventEnvelope{Events: []eventData{{Data: eventBody{
		EventContext: eventContext{Worker: contextWorker{AssociateOID: e.AssociateOID}},
		Transform: eventTransform{Worker: transformWorker{
			BusinessCommunication: &emailTransform{Email: emailURI{EmailURI: e.Email}},
		}},
	}}}}
}

// CustomFieldChange sets a custom string field. ItemID must reference an item
// already present on the remote record; the platform mutates existing items
// by id and will not create one implicitly.
type CustomFieldChange struct {
	AssociateOID string
	ItemID       string
	Value        string
}

// Subresource implements Event.
func (e CustomFieldChange) Subresource() string { return "custom-field.string" }

func (e CustomFieldChange) envelope() eventEnvelope {
	return eventEnvelope{Events: []eventData{{Data: eventBody{
		EventContext: eventContext{Worker: contextWorker{
			AssociateOID:     e.AssociateOID,
			CustomFieldGroup: &contextFieldGroup{StringField: itemRef{ItemID: e.ItemID}},
		}},
		Transform: eventTransform{Worker: transformWorker{
			CustomFieldGroup: &valueFieldGroup{StringField: stringValue{StringValue: e.Value}},
		}},
	}}}}
}

// =============================================================================
// WIRE ENVELOPE
// =============================================================================

type eventEnvelope struct {
	Events []eventData `json:"events"`
}

type eventData struct {
	Data eventBody `json:"data"`
}

type eventBody struct {
	EventContext eventContext   `json:"eventContext"`
	Transform    eventTransform `json:"transform"`
}

type eventContext struct {
	Worker contextWorker `json:"worker"`
}

type contextWorker struct {
	AssociateOID     string             `json:"associateOID"`
	CustomFieldGroup *contextFieldGroup `json:"customFieldGroup,omitempty"`
}

type contextFieldGroup struct {
	StringField itemRef `json:"stringField"`
}

type itemRef struct {
	ItemID string `json:"itemID"`
}

type eventTransform struct {
	Worker transformWorker `json:"worker"`
}

type transformWorker struct {
	BusinessCommunication *emailTransform  `json:"businessCommunication,omitempty"`
	CustomFieldGroup      *valueFieldGroup `json:"customFieldGroup,omitempty"`
}

type emailTransform struct {
	Email emailURI `json:"email"`
}

type emailURI struct {
	EmailURI string `json:"emailUri"`
}

type valueFieldGroup struct {
	StringField stringValue `json:"stringField"`
}

type stringValue struct {
	StringValue string `json:"stringValue"`
}

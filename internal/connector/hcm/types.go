package hcm

// Config holds HCM connection configuration.
type Config struct {
	// ServiceURL is the API root (e.g. https://api.hcm.example.com).
	ServiceURL string `json:"serviceUrl"`

	// TokenURL is the OAuth2 token endpoint.
	TokenURL string `json:"tokenUrl"`

	// ClientID and ClientSecret identify the API client.
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`

	// CertFile and KeyFile are the client TLS certificate pair the platform
	// requires on both the token endpoint and resource calls.
	CertFile string `json:"certFile"`
	KeyFile  string `json:"keyFile"`
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ServiceURL == "" {
		return &ValidationError{Field: "serviceUrl", Message: "required"}
	}
	if c.TokenURL == "" {
		return &ValidationError{Field: "tokenUrl", Message: "required"}
	}
	if c.ClientID == "" {
		return &ValidationError{Field: "clientId", Message: "required"}
	}
	if c.ClientSecret == "" {
		return &ValidationError{Field: "clientSecret", Message: "required"}
	}
	if c.CertFile == "" {
		return &ValidationError{Field: "certFile", Message: "required"}
	}
	if c.KeyFile == "" {
		return &ValidationError{Field: "keyFile", Message: "required"}
	}
	return nil
}

// =============================================================================
// WORKER DOCUMENT TYPES
// =============================================================================

// Code is the platform's coded-value pair.
type Code struct {
	CodeValue string `json:"codeValue"`
	ShortName string `json:"shortName,omitempty"`
	LongName  string `json:"longName,omitempty"`
}

// Worker is the nested worker document returned by the workers endpoint.
type Worker struct {
	AssociateOID          string                 `json:"associateOID"`
	Person                *Person                `json:"person,omitempty"`
	BusinessCommunication *BusinessCommunication `json:"businessCommunication,omitempty"`
	CustomFieldGroup      *CustomFieldGroup      `json:"customFieldGroup,omitempty"`
}

// Person carries name details on a worker document.
type Person struct {
	PreferredName    *PersonName       `json:"preferredName,omitempty"`
	LegalName        *PersonName       `json:"legalName,omitempty"`
	CustomFieldGroup *CustomFieldGroup `json:"customFieldGroup,omitempty"`
}

// PersonName is a name record.
type PersonName struct {
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName1,omitempty"`
}

// BusinessCommunication holds work contact items.
type BusinessCommunication struct {
	Emails []EmailContact `json:"emails,omitempty"`
}

// EmailContact is one entry in businessCommunication.emails. Entries are
// identified by their nameCode, not by position.
type EmailContact struct {
	NameCode Code   `json:"nameCode"`
	EmailURI string `json:"emailUri"`
	ItemID   string `json:"itemID,omitempty"`
}

// CustomFieldGroup is the extensible key-value area on a worker record.
type CustomFieldGroup struct {
	StringFields []StringField `json:"stringFields,omitempty"`
}

// StringField is one custom string field, looked up by nameCode and mutated
// remotely by its item id.
type StringField struct {
	NameCode    Code   `json:"nameCode"`
	StringValue string `json:"stringValue"`
	ItemID      string `json:"itemID"`
}

package model

// Role names a category of contacts attached to an entity.
type Role string

// The four role groups of a registration.
const (
	RolePresident     Role = "President"
	RoleManager       Role = "Manager"
	RolePayoffContact Role = "Payoff Contact"
	RoleBoardMember   Role = "Board Member"
)

// Roles lists every role group in the order they are flattened.
var Roles = []Role{RolePresident, RoleManager, RolePayoffContact, RoleBoardMember}

// String returns the role name used in column headers.
func (r Role) String() string {
	return string(r)
}

// Fixed column names in canonical order.
const (
	ColumnEntityID           = "Entity ID"
	ColumnHOAName            = "HOA Name"
	ColumnDBA                = "DBA"
	ColumnRegistrationNumber = "Registration #"
	ColumnRegistrationType   = "Registration Type"
	ColumnStatus             = "Status"
	ColumnExpires            = "Expires"
	ColumnLocation           = "Location"
	ColumnMailingAddress     = "Mailing Address"
)

// FixedColumns lists the nine always-present header columns in the order
// they appear in every export.
var FixedColumns = []string{
	ColumnEntityID,
	ColumnHOAName,
	ColumnDBA,
	ColumnRegistrationNumber,
	ColumnRegistrationType,
	ColumnStatus,
	ColumnExpires,
	ColumnLocation,
	ColumnMailingAddress,
}

// FixedFields holds the header attributes of one registration.
// Every field is always present; unextractable values are empty strings.
type FixedFields struct {
	EntityID           string `json:"entity_id"`
	HOAName            string `json:"hoa_name"`
	DBA                string `json:"dba"`
	RegistrationNumber string `json:"registration_number"`
	RegistrationType   string `json:"registration_type"`
	Status             string `json:"status"`
	Expires            string `json:"expires"`
	Location           string `json:"location"`
	MailingAddress     string `json:"mailing_address"`
}

// Values returns the field values in FixedColumns order.
func (f FixedFields) Values() []string {
	return []string{
		f.EntityID,
		f.HOAName,
		f.DBA,
		f.RegistrationNumber,
		f.RegistrationType,
		f.Status,
		f.Expires,
		f.Location,
		f.MailingAddress,
	}
}

// DetailRecord is the normalized form of one entity's detail page.
type DetailRecord struct {
	// Fixed holds the nine header attributes.
	Fixed FixedFields `json:"fixed"`

	// Groups maps each role to its contacts in document order.
	// It always contains exactly the four roles of Roles.
	Groups map[Role][]ContactInfo `json:"groups"`
}

// NewDetailRecord creates a record for the given entity with every role
// group present and empty.
func NewDetailRecord(entityID string) *DetailRecord {
	groups := make(map[Role][]ContactInfo, len(Roles))
	for _, role := range Roles {
		groups[role] = []ContactInfo{}
	}
	return &DetailRecord{
		Fixed:  FixedFields{EntityID: entityID},
		Groups: groups,
	}
}

// Add appends a contact to the given role group.
func (r *DetailRecord) Add(role Role, contact ContactInfo) {
	r.Groups[role] = append(r.Groups[role], contact)
}

// Contacts returns the contacts of a role group in document order.
func (r *DetailRecord) Contacts(role Role) []ContactInfo {
	return r.Groups[role]
}

// ContactCount returns the number of contacts across all role groups.
func (r *DetailRecord) ContactCount() int {
	n := 0
	for _, role := range Roles {
		n += len(r.Groups[role])
	}
	return n
}

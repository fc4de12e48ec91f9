package model

// ContactInfo is one person's contact block on a registration page.
// Absent data is represented by an empty string, never by omission.
type ContactInfo struct {
	// Name is the first line of the contact block.
	Name string `json:"name"`

	// Phone is the first US-style phone number found in the block.
	Phone string `json:"phone"`

	// Email is the first e-mail address found in the block.
	Email string `json:"email"`

	// Address is the remaining lines of the block joined with ", ".
	Address string `json:"address"`
}

// ContactFields lists the flattened column suffixes of a ContactInfo
// in the order they are emitted.
var ContactFields = []string{"Name", "Phone", "Email", "Address"}

// Fields returns the contact values in ContactFields order.
func (c ContactInfo) Fields() []string {
	return []string{c.Name, c.Phone, c.Email, c.Address}
}

// IsZero reports whether every field of the contact is empty.
func (c ContactInfo) IsZero() bool {
	return c == ContactInfo{}
}

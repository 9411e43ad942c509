package enums

import "slices"

// ContactType classifies an address book entry.
type ContactType string

const (
	ContactTypeClient  ContactType = "client"
	ContactTypeVendor  ContactType = "vendor"
	ContactTypePartner ContactType = "partner"
	ContactTypeOther   ContactType = "other"
)

var validContactTypes = []ContactType{
	ContactTypeClient,
	ContactTypeVendor,
	ContactTypePartner,
	ContactTypeOther,
}

func (c ContactType) String() string {
	return string(c)
}

func (c ContactType) IsValid() bool {
	return slices.Contains(validContactTypes, c)
}

func ParseContactType(value string) (ContactType, error) {
	return parse(validContactTypes, value, "contact type")
}

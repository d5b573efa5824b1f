package model

// Supplier is a company that provides products. Each supplier owns
// exactly one location which is deleted with it; its products are
// detached on delete, never removed.
//
// Fields:
//  ID           – primary key identifier.
//  CompanyName  – required company name.
//  ContactName  – name of the contact person.
//  ContactTitle – title of the contact person.
//  Location     – owned 1:1 location record.
type Supplier struct {
	ID           uint64    // suppliers.id
	CompanyName  string    // suppliers.company_name
	ContactName  string    // suppliers.contact_name
	ContactTitle string    // suppliers.contact_title
	Location     *Location // owned location, loaded with the supplier
}

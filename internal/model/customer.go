package model

// Customer is a company that places orders. Each customer owns one
// location and zero or more orders. Unlike product detachment
// elsewhere, deleting a customer deletes its orders outright: orders
// are customer-owned data, not shared metadata.
//
// Fields:
//  ID           – primary key identifier.
//  CompanyCode  – short company code (legacy 5-char style code).
//  CompanyName  – required company name.
//  ContactName  – name of the contact person.
//  ContactTitle – title of the contact person.
//  Location     – owned 1:1 location record.
type Customer struct {
	ID           uint64    // customers.id
	CompanyCode  string    // customers.company_code
	CompanyName  string    // customers.company_name
	ContactName  string    // customers.contact_name
	ContactTitle string    // customers.contact_title
	Location     *Location // owned location, loaded with the customer
}

package model

// Location holds the address record owned by exactly one supplier or
// one customer. The address is unique across all locations. Locations
// are deleted together with their owner.
//
// Fields:
//  ID         – primary key identifier.
//  Address    – street address, unique across locations.
//  City       – city name.
//  Region     – state or region, may be empty.
//  PostalCode – postal code.
//  Country    – country name.
//  Phone      – contact phone number.
//  Extension  – phone extension, may be empty.
//  Fax        – fax number, may be empty.
type Location struct {
	ID         uint64 // locations.id
	Address    string // locations.address
	City       string // locations.city
	Region     string // locations.region
	PostalCode string // locations.postal_code
	Country    string // locations.country
	Phone      string // locations.phone
	Extension  string // locations.extension
	Fax        string // locations.fax
}

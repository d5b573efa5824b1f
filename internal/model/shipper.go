package model

// Shipper is a delivery company. Orders reference a shipper while
// assigned to it; deleting a shipper detaches its orders (clearing
// shipper id, shipped date and ship name together) but keeps them.
type Shipper struct {
	ID          uint64 // shippers.id
	CompanyName string // shippers.company_name
	Phone       string // shippers.phone
}

package nessie

// Address is the postal address of a customer
type Address struct {
	StreetNumber string `json:"street_number"`
	StreetName   string `json:"street_name"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

// DefaultAddress is sent when the caller supplies no address
func DefaultAddress() Address {
	return Address{
		StreetNumber: "123",
		StreetName:   "Main St",
		City:         "Anytown",
		State:        "NY",
		Zip:          "12345",
	}
}

// CustomerRequest is the body of POST /customers
type CustomerRequest struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Address   *Address `json:"address"`
}

// AccountRequest is the body of POST /customers/{id}/accounts
type AccountRequest struct {
	Type     string `json:"type"`
	Nickname string `json:"nickname"`
	Rewards  int    `json:"rewards"`
	Balance  int64  `json:"balance"`
}

// Customer is a created customer. Raw keeps the full payload.
type Customer struct {
	ID  string
	Raw map[string]any
}

// Account is a created account. Raw keeps the full payload.
type Account struct {
	ID  string
	Raw map[string]any
}

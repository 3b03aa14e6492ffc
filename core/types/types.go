// Package types - Identity records referenced by prices, actions and bills
package types

// Type identifies what is being billed (e.g., "server_traf", "certificate_purchase")
type Type struct {
	// ID is the stable identifier
	ID string `json:"id"`

	// Name is a human-readable name
	Name string `json:"name,omitempty"`
}

// UniqueID returns the identifier used for matching and grouping
func (t *Type) UniqueID() string {
	if t == nil {
		return ""
	}
	if t.ID != "" {
		return t.ID
	}
	return t.Name
}

// Equals compares types by unique id
func (t *Type) Equals(other *Type) bool {
	return t.UniqueID() == other.UniqueID()
}

// Target is the object being billed (a server, a domain, a certificate)
type Target struct {
	// ID is the stable identifier
	ID string `json:"id"`

	// Name is a human-readable name
	Name string `json:"name,omitempty"`

	// Kind is the target kind (e.g., "server")
	Kind string `json:"kind,omitempty"`
}

// UniqueID returns the identifier used for matching and grouping.
// A nil target has an empty id.
func (t *Target) UniqueID() string {
	if t == nil {
		return ""
	}
	if t.ID != "" {
		return t.ID
	}
	return t.Kind + ":" + t.Name
}

// Equals compares targets by unique id
func (t *Target) Equals(other *Target) bool {
	return t.UniqueID() == other.UniqueID()
}

// Customer is the buyer of a service
type Customer struct {
	// ID is the stable identifier
	ID string `json:"id,omitempty"`

	// Login is the customer login
	Login string `json:"login"`

	// Seller is the reseller the customer belongs to
	Seller *Customer `json:"seller,omitempty"`
}

// UniqueID returns the identifier used for grouping
func (c *Customer) UniqueID() string {
	if c == nil {
		return ""
	}
	if c.ID != "" {
		return c.ID
	}
	return c.Login
}

// Equals compares customers by unique id
func (c *Customer) Equals(other *Customer) bool {
	return c.UniqueID() == other.UniqueID()
}

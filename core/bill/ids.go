package bill

import (
	"github.com/google/uuid"
)

// IDGenerator produces bill ids
type IDGenerator interface {
	BillID(b *Bill) string
}

// RandomIDs assigns random UUIDs
type RandomIDs struct{}

// BillID returns a new random UUID
func (RandomIDs) BillID(*Bill) string { return uuid.NewString() }

// StableIDs derives name-based UUIDs from the bill key, so recalculating the
// same actions yields the same ids.
type StableIDs struct {
	namespace uuid.UUID
}

// NewStableIDs creates a generator scoped to namespace (usually the plan)
func NewStableIDs(namespace string) StableIDs {
	return StableIDs{namespace: uuid.NewSHA1(uuid.NameSpaceOID, []byte(namespace))}
}

// BillID returns the UUID of the bill key within the namespace
func (g StableIDs) BillID(b *Bill) string {
	return uuid.NewSHA1(g.namespace, []byte(b.groupKey().canonical())).String()
}

// AssignIDs gives every bill without an id one from gen.
func AssignIDs(bills []*Bill, gen IDGenerator) error {
	for _, b := range bills {
		if b.ID() != "" {
			continue
		}
		if err := b.SetID(gen.BillID(b)); err != nil {
			return err
		}
	}
	return nil
}

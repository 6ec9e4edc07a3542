package core

import "github.com/google/uuid"

// Id prefixes of the generated record ids.
const (
	SupplierIDPrefix = "prov"
	ProductIDPrefix  = "prod"
)

// IDGenerator produces record ids. Ids must be unique within the document.
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator returns "<prefix>_<uuid v4>".
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

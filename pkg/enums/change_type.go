package enums

import "slices"

// ChangeType is the row operation carried by a realtime event.
type ChangeType string

const (
	ChangeTypeInsert ChangeType = "INSERT"
	ChangeTypeUpdate ChangeType = "UPDATE"
	ChangeTypeDelete ChangeType = "DELETE"
)

var changeTypes = []ChangeType{ChangeTypeInsert, ChangeTypeUpdate, ChangeTypeDelete}

func (c ChangeType) String() string { return string(c) }

func (c ChangeType) IsValid() bool { return slices.Contains(changeTypes, c) }

func ParseChangeType(value string) (ChangeType, error) {
	return parse(changeTypes, value, "change type")
}

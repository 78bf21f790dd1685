package dao

// Criteria parameter names understood by every store
const (
	ParameterKind = "Kind"
	ParameterID   = "ID"
)

type Parameter struct {
	Name  string
	Value interface{}
}

func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// ByKind selects records of one or more kinds
func ByKind(kinds ...string) *Parameter {
	return NewParameter(ParameterKind, kinds...)
}

// ByID selects records with one or more ids
func ByID(ids ...string) *Parameter {
	return NewParameter(ParameterID, ids...)
}

package types

// Standard table names for Cupboard.GetTable.
const (
	DataTypesTable      = "data_types"
	LanguagesTable      = "languages"
	PropertyValuesTable = "property_values"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	DataTypesTable,
	LanguagesTable,
	PropertyValuesTable,
}

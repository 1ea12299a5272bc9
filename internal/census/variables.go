package census

import "strings"

// Variable is one American Community Survey 5-year estimate requested per unit.
type Variable struct {
	Code        string
	Description string
}

// Variables is the request order; row fields come back in the same positions.
var Variables = []Variable{
	{"B01003_001E", "Total population"},
	{"B11001_001E", "Total households"},
	{"B19013_001E", "Median household income"},
	{"B01002_001E", "Median age"},
	{"B15003_022E", "Bachelor's degree"},
	{"B15003_023E", "Master's degree"},
	{"B15003_024E", "Professional degree"},
	{"B15003_025E", "Doctorate"},
	{"B15003_001E", "Total education population (25+)"},
	{"B25003_002E", "Owner occupied housing"},
	{"B25003_001E", "Total occupied housing"},
	{"B25077_001E", "Median home value"},
	{"B25010_001E", "Average household size"},
	{"B23025_005E", "Unemployed"},
	{"B23025_002E", "In labor force"},
	{"B08303_001E", "Total commuters"},
	{"B08303_012E", "Commute 30-34 min"},
	{"B08303_013E", "Commute 35-44 min"},
	{"B01001_003E", "Male under 5"},
	{"B01001_004E", "Male 5-9"},
	{"B01001_005E", "Male 10-14"},
	{"B01001_006E", "Male 15-17"},
	{"B01001_027E", "Female under 5"},
	{"B01001_028E", "Female 5-9"},
	{"B01001_029E", "Female 10-14"},
	{"B01001_030E", "Female 15-17"},
}

// Column positions within a response row.
const (
	colPopulation = iota
	colHouseholds
	colMedianIncome
	colMedianAge
	colBachelors
	colMasters
	colProfessional
	colDoctorate
	colEducationPopulation
	colOwnerOccupied
	colTotalOccupied
	colMedianHomeValue
	colAvgHouseholdSize
	colUnemployed
	colLaborForce
	colCommuters
	colCommute30To34
	colCommute35To44
	colMaleUnder5
	colFemaleUnder5 = colMaleUnder5 + 4
)

// UnitColumn is the header name of the geography column appended to every row.
const UnitColumn = "zip code tabulation area"

// VariableList is the comma-joined "get" parameter.
func VariableList() string {
	codes := make([]string, len(Variables))
	for i, v := range Variables {
		codes[i] = v.Code
	}
	return strings.Join(codes, ",")
}

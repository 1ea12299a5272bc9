package census

import (
	"math"
	"strconv"
	"strings"

	"communityinsights/server/internal/models"
)

// ParseRow maps one positional response row onto named counts. Each field is parsed
// independently: null or unparseable values and the survey's annotation values (see
// annotationValues) become 0 without discarding the rest of the row.
func ParseRow(fields []any, unit string) models.CensusUnitRow {
	row := models.CensusUnitRow{
		Unit:                unit,
		Population:          count(fields, colPopulation),
		Households:          count(fields, colHouseholds),
		MedianIncome:        count(fields, colMedianIncome),
		MedianAge:           decimal(fields, colMedianAge),
		Bachelors:           count(fields, colBachelors),
		Masters:             count(fields, colMasters),
		Professional:        count(fields, colProfessional),
		Doctorate:           count(fields, colDoctorate),
		EducationPopulation: count(fields, colEducationPopulation),
		OwnerOccupied:       count(fields, colOwnerOccupied),
		TotalOccupied:       count(fields, colTotalOccupied),
		MedianHomeValue:     count(fields, colMedianHomeValue),
		AvgHouseholdSize:    decimal(fields, colAvgHouseholdSize),
		Unemployed:          count(fields, colUnemployed),
		LaborForce:          count(fields, colLaborForce),
		Commuters:           count(fields, colCommuters),
		Commute30To34:       count(fields, colCommute30To34),
		Commute35To44:       count(fields, colCommute35To44),
	}
	for i := 0; i < 4; i++ {
		row.MaleUnder18[i] = count(fields, colMaleUnder5+i)
		row.FemaleUnder18[i] = count(fields, colFemaleUnder5+i)
	}
	return row
}

// ParseTable turns a decoded response (header row first) into unit rows.
func ParseTable(table [][]any) []models.CensusUnitRow {
	if len(table) < 2 {
		return nil
	}

	unitCol := -1
	for i, name := range table[0] {
		if s, ok := name.(string); ok && s == UnitColumn {
			unitCol = i
			break
		}
	}

	rows := make([]models.CensusUnitRow, 0, len(table)-1)
	for _, fields := range table[1:] {
		var unit string
		if unitCol >= 0 && unitCol < len(fields) {
			unit, _ = fields[unitCol].(string)
		}
		rows = append(rows, ParseRow(fields, unit))
	}
	return rows
}

// count parses an integer field, truncating any fractional part.
func count(fields []any, i int) int64 {
	v := decimal(fields, i)
	return int64(v)
}

func decimal(fields []any, i int) float64 {
	if i >= len(fields) {
		return 0
	}

	var v float64
	switch raw := fields[i].(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0
		}
		v = parsed
	case float64:
		v = raw
	case int:
		v = float64(raw)
	case int64:
		v = float64(raw)
	default:
		return 0
	}

	if math.IsNaN(v) || math.IsInf(v, 0) || annotationValues[v] {
		return 0
	}
	return v
}

// annotationValues are the ACS placeholders published in place of an estimate, for
// example -666666666 when too few samples exist. Other negative numbers pass through.
var annotationValues = map[float64]bool{
	-999999999: true,
	-888888888: true,
	-666666666: true,
	-555555555: true,
	-333333333: true,
	-222222222: true,
}

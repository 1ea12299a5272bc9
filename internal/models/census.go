package models

// CensusUnitRow holds the raw survey counts for one geographic unit.
type CensusUnitRow struct {
	Unit string `json:"unit"`

	Population   int64   `json:"population"`
	Households   int64   `json:"households"`
	MedianIncome int64   `json:"median_income"`
	MedianAge    float64 `json:"median_age"`

	Bachelors           int64 `json:"bachelors"`
	Masters             int64 `json:"masters"`
	Professional        int64 `json:"professional"`
	Doctorate           int64 `json:"doctorate"`
	EducationPopulation int64 `json:"education_population"`

	OwnerOccupied    int64   `json:"owner_occupied"`
	TotalOccupied    int64   `json:"total_occupied"`
	MedianHomeValue  int64   `json:"median_home_value"`
	AvgHouseholdSize float64 `json:"avg_household_size"`

	Unemployed int64 `json:"unemployed"`
	LaborForce int64 `json:"labor_force"`

	Commuters     int64 `json:"commuters"`
	Commute30To34 int64 `json:"commute_30_to_34"`
	Commute35To44 int64 `json:"commute_35_to_44"`

	// Under 5, 5-9, 10-14, 15-17
	MaleUnder18   [4]int64 `json:"male_under_18"`
	FemaleUnder18 [4]int64 `json:"female_under_18"`
}

// Degrees is the number of residents holding a bachelor's degree or higher.
func (r CensusUnitRow) Degrees() int64 {
	return r.Bachelors + r.Masters + r.Professional + r.Doctorate
}

// Under18 is the under-18 population across both sexes and all four child bands.
func (r CensusUnitRow) Under18() int64 {
	var total int64
	for i := range r.MaleUnder18 {
		total += r.MaleUnder18[i] + r.FemaleUnder18[i]
	}
	return total
}

// DemographicData is the merged demographic summary for a set of units.
type DemographicData struct {
	Population            int64   `json:"population"`
	Households            int64   `json:"households"`
	MedianHouseholdIncome int64   `json:"medianHouseholdIncome"`
	MedianAge             float64 `json:"medianAge"`
	CollegeEducatedPct    int64   `json:"collegeEducatedPct"`
	HomeownershipRate     int64   `json:"homeownershipRate"`
	MedianHomeValue       int64   `json:"medianHomeValue"`
	AverageHouseholdSize  float64 `json:"averageHouseholdSize"`
	UnemploymentRate      float64 `json:"unemploymentRate"`
	CommuteTime           int64   `json:"commuteTime"`

	// Age breakdown
	Under18Pct   int64 `json:"under18Pct"`
	Age18To34Pct int64 `json:"age18to34Pct"`
	Age35To54Pct int64 `json:"age35to54Pct"`
	Age55PlusPct int64 `json:"age55plusPct"`
}

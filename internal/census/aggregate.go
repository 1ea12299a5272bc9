// Package census fetches American Community Survey estimates for geographic units and
// merges them into a single weighted demographic summary.
package census

import (
	"math"

	"communityinsights/server/internal/models"
)

// Placeholder figures shown alongside the derived demographics. They are not computed
// from survey data.
const (
	EstimatedCommuteMinutes = 28
	EstimatedAge18To34Pct   = 25
	EstimatedAge35To54Pct   = 30
)

// fractionScale is the fixed-point resolution of median age and household size. Survey
// values carry at most a few decimals, so scaling by it is exact.
const fractionScale = 1_000_000

// Totals accumulates weighted numerators and denominators across units. All fields are
// integers (median age and household size in millionths) so Add and Merge are exactly
// associative and commutative: any split of the rows into batches yields the same totals.
type Totals struct {
	Population     int64
	Households     int64
	WeightedIncome int64
	WeightedAge    int64 // millionths of a year × population
	Degrees        int64
	EducationPop   int64
	OwnerOccupied  int64
	TotalOccupied  int64
	WeightedValue  int64
	WeightedHHSize int64 // millionths of a person × households
	Unemployed     int64
	LaborForce     int64
	Commuters      int64
	Under18        int64
	Units          int
}

// Add folds one unit into the totals. A row with a zero weight contributes zero to both
// sides of the matching ratio.
func (t *Totals) Add(row models.CensusUnitRow) {
	t.Population += row.Population
	t.Households += row.Households
	t.WeightedIncome += row.MedianIncome * row.Households
	t.WeightedAge += scaled(row.MedianAge) * row.Population
	t.Degrees += row.Degrees()
	t.EducationPop += row.EducationPopulation
	t.OwnerOccupied += row.OwnerOccupied
	t.TotalOccupied += row.TotalOccupied
	t.WeightedValue += row.MedianHomeValue * row.TotalOccupied
	t.WeightedHHSize += scaled(row.AvgHouseholdSize) * row.Households
	t.Unemployed += row.Unemployed
	t.LaborForce += row.LaborForce
	t.Commuters += row.Commuters
	t.Under18 += row.Under18()
	t.Units++
}

// Merge adds another accumulator into t.
func (t *Totals) Merge(o Totals) {
	t.Population += o.Population
	t.Households += o.Households
	t.WeightedIncome += o.WeightedIncome
	t.WeightedAge += o.WeightedAge
	t.Degrees += o.Degrees
	t.EducationPop += o.EducationPop
	t.OwnerOccupied += o.OwnerOccupied
	t.TotalOccupied += o.TotalOccupied
	t.WeightedValue += o.WeightedValue
	t.WeightedHHSize += o.WeightedHHSize
	t.Unemployed += o.Unemployed
	t.LaborForce += o.LaborForce
	t.Commuters += o.Commuters
	t.Under18 += o.Under18
	t.Units += o.Units
}

// Demographics divides the accumulated totals. It returns nil when no population was
// recorded.
func (t Totals) Demographics() *models.DemographicData {
	if t.Population == 0 {
		return nil
	}

	under18 := percent(t.Under18, t.Population)
	age55Plus := 100 - EstimatedAge18To34Pct - EstimatedAge35To54Pct - under18
	if age55Plus < 0 {
		age55Plus = 0
	}

	return &models.DemographicData{
		Population:            t.Population,
		Households:            t.Households,
		MedianHouseholdIncome: ratio(t.WeightedIncome, t.Households),
		MedianAge:             tenths(t.WeightedAge, t.Population),
		CollegeEducatedPct:    percent(t.Degrees, t.EducationPop),
		HomeownershipRate:     percent(t.OwnerOccupied, t.TotalOccupied),
		MedianHomeValue:       ratio(t.WeightedValue, t.TotalOccupied),
		AverageHouseholdSize:  tenths(t.WeightedHHSize, t.Households),
		UnemploymentRate:      float64(ratio(t.Unemployed*1000, t.LaborForce)) / 10,
		CommuteTime:           EstimatedCommuteMinutes,
		Under18Pct:            under18,
		Age18To34Pct:          EstimatedAge18To34Pct,
		Age35To54Pct:          EstimatedAge35To54Pct,
		Age55PlusPct:          age55Plus,
	}
}

// Aggregate merges unit rows into one summary, or nil when their combined population is 0.
func Aggregate(rows []models.CensusUnitRow) *models.DemographicData {
	var t Totals
	for _, row := range rows {
		t.Add(row)
	}
	return t.Demographics()
}

// ratio is num/den rounded half up, or 0 when den is 0. The division is done in integers
// so large weighted sums keep full precision.
func ratio(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	if den < 0 {
		num, den = -num, -den
	}
	q, r := num/den, num%den
	if r < 0 {
		q, r = q-1, r+den
	}
	if 2*r >= den {
		q++
	}
	return q
}

// tenths divides a sum of fixed-point values by its weight, rounded to one decimal.
func tenths(num, den int64) float64 {
	return float64(ratio(num, den*(fractionScale/10))) / 10
}

func scaled(v float64) int64 {
	return int64(math.Round(v * fractionScale))
}

func percent(num, den int64) int64 {
	return ratio(num*100, den)
}

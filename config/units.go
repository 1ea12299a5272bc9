package config

// defaultUnits are the zip code tabulation areas of the Austin metropolitan area used
// when CENSUS_UNITS is not set.
var defaultUnits = []string{
	"78701", "78702", "78703", "78704", "78705", "78712", "78717", "78719", "78721", "78722",
	"78723", "78724", "78725", "78726", "78727", "78728", "78729", "78730", "78731", "78732",
	"78733", "78734", "78735", "78736", "78737", "78738", "78739", "78741", "78742", "78744",
	"78745", "78746", "78747", "78748", "78749", "78750", "78751", "78752", "78753", "78754",
	"78756", "78757", "78758", "78759", "78610", "78613", "78620", "78617", "78641", "78645",
	"78652", "78653", "78660", "78664", "78665", "78669", "78681", "78628", "78626", "78633",
}

// DefaultUnits returns a copy of the built-in candidate unit list.
func DefaultUnits() []string {
	units := make([]string, len(defaultUnits))
	copy(units, defaultUnits)
	return units
}

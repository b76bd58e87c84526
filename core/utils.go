package core

const isCountryKey = "isCountry"

// FilterCountryLocations keeps the locations whose isCountry flag equals isCountry.
// Pass the Items of a /locations ListResult, not the raw payload wrapper.
// Records without the flag count as non-countries.
func FilterCountryLocations(locations RecordSet, isCountry bool) RecordSet {
	filtered := RecordSet{}
	for _, location := range locations {
		flag, _ := location[isCountryKey].(bool)
		if flag == isCountry {
			filtered = append(filtered, location)
		}
	}
	return filtered
}

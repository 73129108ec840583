package relevance

import (
	"regexp"
)

// Court hierarchy weights. A case is boosted by 1 + weight/20.
const (
	WeightHighCourt      = 10
	WeightFederalAppeal  = 9
	WeightStateAppeal    = 8
	WeightFederalTrial   = 7
	WeightStateSupreme   = 6
	WeightFederalCircuit = 5
	WeightDistrict       = 3
	WeightTribunal       = 2

	// unknown courts get no boost
	weightUnknown = 0
	boostDivisor  = 20.0
)

var courtHierarchy = map[string]int{
	"HCA": WeightHighCourt,

	"FamCAFC":    WeightFederalAppeal,
	"FCAFC":      WeightFederalAppeal,
	"FedCFamC1A": WeightFederalAppeal,

	"NSWCA":  WeightStateAppeal,
	"VSCA":   WeightStateAppeal,
	"QCA":    WeightStateAppeal,
	"WASCA":  WeightStateAppeal,
	"SASCFC": WeightStateAppeal,

	"FamCA":      WeightFederalTrial,
	"FedCFamC1F": WeightFederalTrial,
	"FCA":        WeightFederalTrial,
	"FCWA":       WeightFederalTrial,

	"NSWSC": WeightStateSupreme,
	"VSC":   WeightStateSupreme,
	"QSC":   WeightStateSupreme,
	"WASC":  WeightStateSupreme,
	"SASC":  WeightStateSupreme,

	"FMCAfam":    WeightFederalCircuit,
	"FedCFamC2F": WeightFederalCircuit,
	"FCCA":       WeightFederalCircuit,

	"NSWDC": WeightDistrict,
	"VCC":   WeightDistrict,
	"QDC":   WeightDistrict,

	"AATA":     WeightTribunal,
	"NCAT":     WeightTribunal,
	"NSWCATAD": WeightTribunal,
	"VCAT":     WeightTribunal,
	"QCAT":     WeightTribunal,
}

var courtCitationPattern = regexp.MustCompile(`\[(\d{4})\]\s*([A-Za-z][A-Za-z0-9]*)\s+(\d+)`)

// CourtCode parses the court code out of a medium neutral citation such as
// "[2020] HCA 5". It returns "" when the citation has no such form.
func CourtCode(citation string) string {
	m := courtCitationPattern.FindStringSubmatch(citation)
	if m == nil {
		return ""
	}
	return m[2]
}

// CourtWeight returns the hierarchy weight of a court code, 0 when unknown.
func CourtWeight(code string) int {
	if w, ok := courtHierarchy[code]; ok {
		return w
	}
	return weightUnknown
}

// AuthorityBoost is the multiplier applied to a case from the given court.
func AuthorityBoost(code string) float64 {
	return 1 + float64(CourtWeight(code))/boostDivisor
}

package delivery

// The delivery whitelist covers Budapest plus the Pest county towns the courier
// route reaches. Postcodes are the 4-digit Hungarian scheme; Budapest codes are
// 1DDx where DD is the district number.

const budapestDistricts = 23

// surroundingTowns maps serviceable postcodes outside Budapest to their town names
var surroundingTowns = map[string]string{
	"2000": "Szentendre",
	"2011": "Budakalász",
	"2030": "Érd",
	"2040": "Budaörs",
	"2045": "Törökbálint",
	"2049": "Diósd",
	"2083": "Solymár",
	"2092": "Budakeszi",
	"2100": "Gödöllő",
	"2112": "Veresegyház",
	"2120": "Dunakeszi",
	"2131": "Göd",
	"2141": "Csömör",
	"2142": "Nagytarcsa",
	"2220": "Vecsés",
	"2230": "Gyömrő",
	"2310": "Szigetszentmiklós",
	"2330": "Dunaharaszti",
	"2360": "Gyál",
	"2440": "Százhalombatta",
}

// IsServiceable reports whether orders can be delivered to the given postcode.
// Only exact 4-digit strings present in the whitelist pass
func IsServiceable(postcode string) bool {
	return ResolveCity(postcode) != ""
}

// ResolveCity returns the city belonging to a serviceable postcode, or ""
// when the postcode is outside the delivery area or malformed
func ResolveCity(postcode string) string {
	if len(postcode) != 4 {
		return ""
	}
	for _, c := range postcode {
		if c < '0' || c > '9' {
			return ""
		}
	}

	if city, ok := surroundingTowns[postcode]; ok {
		return city
	}

	// Budapest: 1DDx with district DD between 01 and 23
	if postcode[0] == '1' {
		district := int(postcode[1]-'0')*10 + int(postcode[2]-'0')
		if district >= 1 && district <= budapestDistricts {
			return "Budapest"
		}
	}

	return ""
}

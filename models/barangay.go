package models

// Coordinator zones. Every barangay maps to exactly one zone; staff with
// ZoneCitywide may be assigned reports anywhere.
const (
	ZoneNorth    = "north"
	ZoneSouth    = "south"
	ZoneEast     = "east"
	ZoneWest     = "west"
	ZoneIsland   = "island"
	ZoneCitywide = "citywide"
)

// Service-area bounding box for Surigao City. Coordinates outside this box
// are rejected at validation rather than geocoded elsewhere.
const (
	ServiceAreaMinLat = 9.55
	ServiceAreaMaxLat = 10.05
	ServiceAreaMinLng = 125.35
	ServiceAreaMaxLng = 125.75
)

// InServiceArea reports whether a coordinate pair falls inside the
// configured service-area bounding box
func InServiceArea(lat, lng float64) bool {
	return lat >= ServiceAreaMinLat && lat <= ServiceAreaMaxLat &&
		lng >= ServiceAreaMinLng && lng <= ServiceAreaMaxLng
}

// Barangay is one geographic partition of the service area
type Barangay struct {
	Code string `json:"code" bson:"code"`
	Name string `json:"name" bson:"name"`
	Zone string `json:"zone" bson:"zone"`
}

// Barangays is the fixed table of known barangays. Codes are stable and
// referenced by reports; do not renumber.
var Barangays = []Barangay{
	{Code: "SUR-001", Name: "Alegria", Zone: ZoneSouth},
	{Code: "SUR-002", Name: "Anomar", Zone: ZoneSouth},
	{Code: "SUR-003", Name: "Bilabid", Zone: ZoneIsland},
	{Code: "SUR-004", Name: "Bonifacio", Zone: ZoneSouth},
	{Code: "SUR-005", Name: "Cagniog", Zone: ZoneEast},
	{Code: "SUR-006", Name: "Canlanipa", Zone: ZoneNorth},
	{Code: "SUR-007", Name: "Capalayan", Zone: ZoneSouth},
	{Code: "SUR-008", Name: "Danawan", Zone: ZoneIsland},
	{Code: "SUR-009", Name: "Ipil", Zone: ZoneWest},
	{Code: "SUR-010", Name: "Lipata", Zone: ZoneWest},
	{Code: "SUR-011", Name: "Luna", Zone: ZoneNorth},
	{Code: "SUR-012", Name: "Mabini", Zone: ZoneEast},
	{Code: "SUR-013", Name: "Mabua", Zone: ZoneWest},
	{Code: "SUR-014", Name: "Mapawa", Zone: ZoneEast},
	{Code: "SUR-015", Name: "Mat-i", Zone: ZoneSouth},
	{Code: "SUR-016", Name: "Nabago", Zone: ZoneSouth},
	{Code: "SUR-017", Name: "Nonoc", Zone: ZoneIsland},
	{Code: "SUR-018", Name: "Orok", Zone: ZoneSouth},
	{Code: "SUR-019", Name: "Poctoy", Zone: ZoneEast},
	{Code: "SUR-020", Name: "Punta Bilar", Zone: ZoneWest},
	{Code: "SUR-021", Name: "Quezon", Zone: ZoneSouth},
	{Code: "SUR-022", Name: "Rizal", Zone: ZoneNorth},
	{Code: "SUR-023", Name: "Sabang", Zone: ZoneWest},
	{Code: "SUR-024", Name: "San Isidro", Zone: ZoneIsland},
	{Code: "SUR-025", Name: "San Jose", Zone: ZoneIsland},
	{Code: "SUR-026", Name: "San Juan", Zone: ZoneNorth},
	{Code: "SUR-027", Name: "San Pedro", Zone: ZoneIsland},
	{Code: "SUR-028", Name: "San Roque", Zone: ZoneEast},
	{Code: "SUR-029", Name: "Serna", Zone: ZoneWest},
	{Code: "SUR-030", Name: "Sidlakan", Zone: ZoneEast},
	{Code: "SUR-031", Name: "Silop", Zone: ZoneEast},
	{Code: "SUR-032", Name: "Sugbay", Zone: ZoneIsland},
	{Code: "SUR-033", Name: "Sukailang", Zone: ZoneSouth},
	{Code: "SUR-034", Name: "Taft", Zone: ZoneNorth},
	{Code: "SUR-035", Name: "Togbongon", Zone: ZoneSouth},
	{Code: "SUR-036", Name: "Trinidad", Zone: ZoneSouth},
	{Code: "SUR-037", Name: "Washington", Zone: ZoneNorth},
	{Code: "SUR-038", Name: "Zaragoza", Zone: ZoneIsland},
}

var barangayIndex = func() map[string]Barangay {
	idx := make(map[string]Barangay, len(Barangays))
	for _, b := range Barangays {
		idx[b.Code] = b
	}
	return idx
}()

// BarangayByCode looks up a barangay by its stable code
func BarangayByCode(code string) (Barangay, bool) {
	b, ok := barangayIndex[code]
	return b, ok
}

// ZoneForBarangay returns the coordinator zone for a barangay code, or
// empty string when the code is unknown
func ZoneForBarangay(code string) string {
	if b, ok := barangayIndex[code]; ok {
		return b.Zone
	}
	return ""
}

package models

import "strings"

type MigratoryStatus string

const (
	StatusResident    MigratoryStatus = "RESIDENTE"
	StatusCitizen     MigratoryStatus = "CIUDADANO"
	StatusNaturalized MigratoryStatus = "NATURALIZADO"
	StatusTPS         MigratoryStatus = "TPS"
	StatusParole      MigratoryStatus = "PAROL"
	StatusWorkPermit  MigratoryStatus = "PERMISO DE TRABAJO"
)

var MigratoryStatuses = []MigratoryStatus{
	StatusResident,
	StatusCitizen,
	StatusNaturalized,
	StatusTPS,
	StatusParole,
	StatusWorkPermit,
}

func (s MigratoryStatus) Valid() bool {
	for _, status := range MigratoryStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Carrier string

const (
	CarrierFloridaBlue     Carrier = "Florida Blue"
	CarrierOscar           Carrier = "Oscar"
	CarrierAmbetter        Carrier = "Ambetter"
	CarrierAetna           Carrier = "Aetna"
	CarrierCigna           Carrier = "Cigna"
	CarrierUnitedHealth    Carrier = "United HealthCare"
	CarrierAmeriHealthNext Carrier = "AmeriHealth Caritas NEXT"
	CarrierAvMed           Carrier = "AvMed"
	CarrierMolina          Carrier = "Molina HealthCare"
)

var Carriers = []Carrier{
	CarrierFloridaBlue,
	CarrierOscar,
	CarrierAmbetter,
	CarrierAetna,
	CarrierCigna,
	CarrierUnitedHealth,
	CarrierAmeriHealthNext,
	CarrierAvMed,
	CarrierMolina,
}

func (c Carrier) Valid() bool {
	for _, carrier := range Carriers {
		if c == carrier {
			return true
		}
	}
	return false
}

// States and Cities back search-assisted selection only; saved records are
// never validated against them.
var States = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
	"Connecticut", "Delaware", "Florida", "Georgia", "Hawaii", "Idaho",
	"Illinois", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana",
	"Maine", "Maryland", "Massachusetts", "Michigan", "Minnesota", "Mississippi",
	"Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire", "New Jersey",
	"New Mexico", "New York", "North Carolina", "North Dakota", "Ohio", "Oklahoma",
	"Oregon", "Pennsylvania", "Rhode Island", "South Carolina", "South Dakota", "Tennessee",
	"Texas", "Utah", "Vermont", "Virginia", "Washington", "West Virginia",
	"Wisconsin", "Wyoming",
}

var Cities = []string{
	"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Philadelphia",
	"San Antonio", "San Diego", "Dallas", "San Jose", "Austin", "Jacksonville",
	"Fort Worth", "Columbus", "San Francisco", "Charlotte", "Indianapolis", "Seattle",
	"Denver", "Washington", "Boston", "El Paso", "Detroit", "Nashville",
	"Portland", "Memphis", "Oklahoma City", "Las Vegas", "Louisville", "Baltimore",
	"Milwaukee", "Albuquerque", "Tucson", "Fresno", "Mesa", "Sacramento",
	"Atlanta", "Kansas City", "Colorado Springs", "Miami", "Raleigh", "Omaha",
	"Long Beach", "Virginia Beach", "Oakland", "Minneapolis", "Tulsa", "Tampa",
	"Arlington", "Wichita", "New Orleans", "Cleveland", "Bakersfield", "Aurora",
	"Anaheim", "Honolulu", "Santa Ana", "Riverside", "Corpus Christi", "Lexington",
	"Stockton", "Henderson", "Saint Paul", "St. Louis", "Cincinnati", "Pittsburgh",
	"Greensboro", "Anchorage", "Plano", "Lincoln", "Orlando", "Irvine",
	"Newark", "Toledo", "Durham", "Chula Vista", "Fort Wayne", "Jersey City",
	"St. Petersburg", "Laredo", "Madison", "Chandler", "Buffalo", "Lubbock",
	"Scottsdale", "Reno", "Glendale", "Gilbert", "Winston-Salem", "North Las Vegas",
	"Norfolk", "Chesapeake", "Garland", "Irving", "Hialeah", "Fremont",
	"Boise", "Richmond", "Baton Rouge", "Spokane", "Des Moines", "Tacoma",
	"San Bernardino", "Modesto", "Fontana", "Santa Clarita", "Birmingham", "Oxnard",
	"Fayetteville", "Moreno Valley", "Akron", "Huntington Beach", "Little Rock", "Augusta",
	"Amarillo", "Mobile", "Grand Rapids", "Salt Lake City", "Tallahassee", "Huntsville",
	"Grand Prairie", "Knoxville", "Worcester", "Newport News", "Brownsville", "Overland Park",
	"Santa Rosa", "Providence", "Garden Grove", "Chattanooga", "Oceanside", "Jackson",
	"Fort Lauderdale", "Rancho Cucamonga", "Port St. Lucie", "Tempe", "Ontario", "Vancouver",
	"Cape Coral", "Sioux Falls", "Springfield", "Peoria", "Pembroke Pines", "Elk Grove",
	"Salem", "Lancaster", "Corona", "Eugene", "Palmdale", "Salinas",
	"Pasadena", "Fort Collins", "Hayward", "Pomona", "Cary", "Rockford",
	"Alexandria", "Escondido", "McKinney", "Joliet", "Sunnyvale", "Torrance",
	"Bridgeport", "Lakewood", "Hollywood", "Paterson", "Naperville", "Syracuse",
	"Mesquite", "Dayton", "Savannah", "Clarksville", "Orange", "Fullerton",
	"Killeen", "Frisco", "Hampton", "McAllen", "Warren", "Bellevue",
	"West Valley City", "Columbia", "Olathe", "Sterling Heights", "New Haven", "Miramar",
	"Waco", "Thousand Oaks", "Cedar Rapids", "Charleston", "Visalia", "Topeka",
	"Elizabeth", "Gainesville", "Thornton", "Roseville", "Carrollton", "Coral Springs",
	"Stamford", "Simi Valley", "Concord", "Hartford", "Kent", "Lafayette",
	"Midland", "Surprise", "Denton", "Victorville", "Evansville", "Santa Clara",
	"Abilene", "Athens", "Vallejo", "Allentown", "Norman", "Beaumont",
	"Independence", "Murfreesboro", "Ann Arbor", "Fargo", "Wilmington", "Golden",
	"Westminster", "Portsmouth", "Manchester", "Elgin", "Round Rock", "Clearwater",
	"Waterbury", "Gresham", "Fairfield", "Billings", "Lowell", "San Buenaventura",
	"Pueblo", "High Point", "West Covina", "Murrieta", "Cambridge", "Antioch",
	"Temecula", "Norwalk", "Centennial", "Everett", "Palm Bay", "Wichita Falls",
	"Green Bay", "Daly City", "Burbank", "Richardson", "Pompano Beach", "North Charleston",
	"Broken Arrow", "Boulder", "West Palm Beach", "Carlsbad", "El Monte", "Rialto",
	"Las Cruces", "Davenport", "Miami Gardens", "Clovis", "Pearland", "Downey",
	"Costa Mesa", "College Station", "Inglewood", "San Mateo", "Hillsboro", "Lansing",
	"Kalamazoo",
}

type OptionList string

const (
	OptionMigratoryStatus OptionList = "migratory-statuses"
	OptionCarriers        OptionList = "carriers"
	OptionStates          OptionList = "states"
	OptionCities          OptionList = "cities"
)

type Options struct {
	MigratoryStatuses []string `json:"migratoryStatuses"`
	Carriers          []string `json:"carriers"`
	States            []string `json:"states"`
	Cities            []string `json:"cities"`
}

func AllOptions() Options {
	return Options{
		MigratoryStatuses: OptionValues(OptionMigratoryStatus),
		Carriers:          OptionValues(OptionCarriers),
		States:            OptionValues(OptionStates),
		Cities:            OptionValues(OptionCities),
	}
}

// OptionValues returns a copy of the named list, or nil for an unknown name.
func OptionValues(list OptionList) []string {
	switch list {
	case OptionMigratoryStatus:
		values := make([]string, len(MigratoryStatuses))
		for i, status := range MigratoryStatuses {
			values[i] = string(status)
		}
		return values
	case OptionCarriers:
		values := make([]string, len(Carriers))
		for i, carrier := range Carriers {
			values[i] = string(carrier)
		}
		return values
	case OptionStates:
		return append([]string(nil), States...)
	case OptionCities:
		return append([]string(nil), Cities...)
	default:
		return nil
	}
}

// FilterOptions narrows an option list by case-insensitive substring.
func FilterOptions(values []string, term string) []string {
	if term == "" {
		return values
	}

	term = strings.ToLower(term)
	filtered := make([]string, 0, len(values))
	for _, value := range values {
		if strings.Contains(strings.ToLower(value), term) {
			filtered = append(filtered, value)
		}
	}
	return filtered
}

package timezone

import (
	"strings"
	"time"
	_ "time/tzdata"
)

var airportZones = map[string]string{
	// United Kingdom & Ireland
	"LHR": "Europe/London", // London - Heathrow
	"LGW": "Europe/London", // London - Gatwick
	"STN": "Europe/London", // London - Stansted
	"LTN": "Europe/London", // London - Luton
	"LCY": "Europe/London", // London - City
	"MAN": "Europe/London", // Manchester
	"BHX": "Europe/London", // Birmingham
	"EDI": "Europe/London", // Edinburgh
	"GLA": "Europe/London", // Glasgow
	"BRS": "Europe/London", // Bristol
	"DUB": "Europe/Dublin", // Dublin

	// Continental Europe
	"CDG": "Europe/Paris",     // Paris - Charles de Gaulle
	"ORY": "Europe/Paris",     // Paris - Orly
	"AMS": "Europe/Amsterdam", // Amsterdam - Schiphol
	"FRA": "Europe/Berlin",    // Frankfurt
	"MUC": "Europe/Berlin",    // Munich
	"BER": "Europe/Berlin",    // Berlin Brandenburg
	"MAD": "Europe/Madrid",    // Madrid - Barajas
	"BCN": "Europe/Madrid",    // Barcelona - El Prat
	"FCO": "Europe/Rome",      // Rome - Fiumicino
	"MXP": "Europe/Rome",      // Milan - Malpensa
	"ZRH": "Europe/Zurich",    // Zurich
	"LIS": "Europe/Lisbon",    // Lisbon
	"ATH": "Europe/Athens",    // Athens
	"IST": "Europe/Istanbul",  // Istanbul

	// Long haul
	"JFK": "America/New_York",    // New York - JFK
	"EWR": "America/New_York",    // Newark
	"BOS": "America/New_York",    // Boston Logan
	"ORD": "America/Chicago",     // Chicago O'Hare
	"LAX": "America/Los_Angeles", // Los Angeles
	"SFO": "America/Los_Angeles", // San Francisco
	"YYZ": "America/Toronto",     // Toronto Pearson
	"DXB": "Asia/Dubai",          // Dubai
	"DOH": "Asia/Qatar",          // Doha Hamad
	"SIN": "Asia/Singapore",      // Singapore Changi
	"HKG": "Asia/Hong_Kong",      // Hong Kong
	"NRT": "Asia/Tokyo",          // Tokyo Narita
	"HND": "Asia/Tokyo",          // Tokyo Haneda
	"CGK": "Asia/Jakarta",        // Jakarta Soekarno-Hatta
	"DPS": "Asia/Makassar",       // Bali Ngurah Rai
	"SYD": "Australia/Sydney",    // Sydney
}

// ZoneByAirport returns the IANA zone name for an airport, defaulting to UTC.
func ZoneByAirport(code string) string {
	code = strings.ToUpper(code)
	if tz, ok := airportZones[code]; ok {
		return tz
	}
	return "UTC"
}

func LocationByAirport(code string) *time.Location {
	loc, err := time.LoadLocation(ZoneByAirport(code))
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseTimeWithOffset accepts the timestamp shapes the API has been seen to
// emit. Values without an offset are read in the airport's local zone.
func ParseTimeWithOffset(timeStr string, airportCode string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05-0700", // Without colon
		"2006-01-02T15:04:05.000Z07:00",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t, nil
		}
	}

	loc := LocationByAirport(airportCode)
	simpleFormats := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	for _, format := range simpleFormats {
		if t, err := time.ParseInLocation(format, timeStr, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   timeStr,
		Message: "unable to parse time string",
	}
}

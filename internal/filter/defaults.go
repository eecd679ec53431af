package filter

import "time"

// DefaultPolicy returns the stock entry-level-US policy. Every set here can be
// overridden from config; these are the values the agent shipped with.
func DefaultPolicy() Policy {
	return Policy{
		TargetRoles: []string{
			"software engineer",
			"swe",
			"ml engineer",
			"machine learning engineer",
			"ai engineer",
			"data scientist",
			"data engineer",
			"security engineer",
			"cybersecurity",
			"security analyst",
		},
		ExperienceKeywords: []string{
			"entry level",
			"new grad",
			"graduate",
			"junior",
			"early career",
			"associate",
			"assistant",
		},
		AssociateTitles: []string{
			"engineer i",
			"engineer 1",
			"software engineer i",
			"software engineer 1",
			"data engineer i",
			"data engineer 1",
			"ml engineer i",
			"ml engineer 1",
			"security engineer i",
			"security engineer 1",
		},
		ExcludeKeywords: []string{
			"senior",
			"staff",
			"sr ",
			"principal",
			"lead",
			"manager",
			"director",
			"head of",
			"vp ",
			"intern",
		},
		LocationIncludes: []string{
			"us", "usa", "u.s.", "united states",
			"remote", "remote-us", "remote us",
			"anywhere in the us", "us only",
			"hybrid", "hybrid-us",
		},
		LocationExcludes: []string{
			"canada",
			"united kingdom",
			"london",
			"ireland",
			"germany",
			"france",
			"netherlands",
			"poland",
			"india",
			"bangalore",
			"singapore",
			"australia",
			"japan",
			"brazil",
			"mexico city",
			"emea",
			"apac",
		},
		StateNames:       usStateNames,
		FreshnessWindow:  24 * time.Hour,
		MissingTimestamp: MissingTreatAsFresh,
	}
}

// usStateCodes covers the 50 states plus DC, keyed lowercased for the
// ", XX" pattern check.
var usStateCodes = map[string]bool{
	"al": true, "ak": true, "az": true, "ar": true, "ca": true,
	"co": true, "ct": true, "de": true, "fl": true, "ga": true,
	"hi": true, "id": true, "il": true, "in": true, "ia": true,
	"ks": true, "ky": true, "la": true, "me": true, "md": true,
	"ma": true, "mi": true, "mn": true, "ms": true, "mo": true,
	"mt": true, "ne": true, "nv": true, "nh": true, "nj": true,
	"nm": true, "ny": true, "nc": true, "nd": true, "oh": true,
	"ok": true, "or": true, "pa": true, "ri": true, "sc": true,
	"sd": true, "tn": true, "tx": true, "ut": true, "vt": true,
	"va": true, "wa": true, "wv": true, "wi": true, "wy": true,
	"dc": true,
}

var usStateNames = []string{
	"alabama", "alaska", "arizona", "arkansas", "california",
	"colorado", "connecticut", "delaware", "florida", "georgia",
	"hawaii", "idaho", "illinois", "indiana", "iowa",
	"kansas", "kentucky", "louisiana", "maine", "maryland",
	"massachusetts", "michigan", "minnesota", "mississippi", "missouri",
	"montana", "nebraska", "nevada", "new hampshire", "new jersey",
	"new mexico", "new york", "north carolina", "north dakota", "ohio",
	"oklahoma", "oregon", "pennsylvania", "rhode island", "south carolina",
	"south dakota", "tennessee", "texas", "utah", "vermont",
	"virginia", "washington", "west virginia", "wisconsin", "wyoming",
}

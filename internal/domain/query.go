package domain

// SearchParams are the caller-facing search parameters. Query is a boolean-OR
// expression of quoted/unquoted terms, e.g. `"gene therapy" OR biosimilar`.
type SearchParams struct {
	Query     string
	Country   string
	Language  string
	DateRange string
	Start     int
	Num       int
}

const (
	DefaultCountry   = "us"
	DefaultDateRange = "m1"
	DefaultStart     = 1

	// MaxStart mirrors the upstream pagination window.
	MaxStart = 91

	// MaxQueryLength guards the upstream query size limit.
	MaxQueryLength = 500
)

// CountryConfig maps a country code onto the news provider's language filter.
type CountryConfig struct {
	NameKo   string
	Language string
}

var CountryConfigs = map[string]CountryConfig{
	"us": {NameKo: "미국", Language: "en"},
	"gb": {NameKo: "영국", Language: "en"},
	"au": {NameKo: "호주", Language: "en"},
	"ca": {NameKo: "캐나다", Language: "en"},
	"jp": {NameKo: "일본", Language: "ja"},
	"kr": {NameKo: "한국", Language: "ko"},
	"cn": {NameKo: "중국", Language: "zh"},
	"in": {NameKo: "인도", Language: "en"},
	"sg": {NameKo: "싱가포르", Language: "en"},
	"ae": {NameKo: "UAE", Language: "ar"},
	"sa": {NameKo: "사우디", Language: "ar"},
	"il": {NameKo: "이스라엘", Language: "he"},
	"de": {NameKo: "독일", Language: "de"},
	"fr": {NameKo: "프랑스", Language: "fr"},
}

var SupportedDateRanges = []string{"d1", "d3", "d7", "w1", "m1", "m3", "m6", "y1"}

func IsSupportedCountry(code string) bool {
	_, ok := CountryConfigs[code]
	return ok
}

func IsSupportedDateRange(r string) bool {
	for _, s := range SupportedDateRanges {
		if s == r {
			return true
		}
	}
	return false
}

package location

import (
	"regexp"
	"strings"

	"SupplierScout/internal/domain"
)

// Default country when a location string matches nothing. The service
// grew up around the Kazakhstan market; unresolved locations fall back
// there rather than erroring.
const (
	DefaultCountryCode = "kz"
	DefaultLanguage    = "ru"
)

type entry struct {
	token    string
	code     string
	language string
}

// countryEntries maps location tokens (country names, major cities, both
// Latin and Cyrillic spellings) to country code and primary search
// language. Order matters: the substring pass takes the first match.
var countryEntries = []entry{
	// CIS
	{"kazakhstan", "kz", "ru"}, {"казахстан", "kz", "ru"},
	{"almaty", "kz", "ru"}, {"алматы", "kz", "ru"},
	{"astana", "kz", "ru"}, {"астана", "kz", "ru"},
	{"russia", "ru", "ru"}, {"россия", "ru", "ru"},
	{"moscow", "ru", "ru"}, {"москва", "ru", "ru"},
	{"saint petersburg", "ru", "ru"}, {"санкт-петербург", "ru", "ru"},
	{"ukraine", "ua", "uk"}, {"украина", "ua", "uk"},
	{"kyiv", "ua", "uk"}, {"киев", "ua", "uk"},
	{"belarus", "by", "ru"}, {"беларусь", "by", "ru"},
	{"minsk", "by", "ru"}, {"минск", "by", "ru"},
	{"uzbekistan", "uz", "uz"}, {"узбекистан", "uz", "uz"},
	{"tashkent", "uz", "uz"}, {"ташкент", "uz", "uz"},
	{"kyrgyzstan", "kg", "ky"}, {"кыргызстан", "kg", "ky"},
	{"bishkek", "kg", "ky"}, {"бишкек", "kg", "ky"},
	{"tajikistan", "tj", "tg"}, {"таджикистан", "tj", "tg"},
	{"dushanbe", "tj", "tg"}, {"душанбе", "tj", "tg"},
	{"turkmenistan", "tm", "tk"}, {"туркменистан", "tm", "tk"},
	{"ashgabat", "tm", "tk"}, {"ашхабад", "tm", "tk"},
	{"azerbaijan", "az", "az"}, {"азербайджан", "az", "az"},
	{"baku", "az", "az"}, {"баку", "az", "az"},
	{"armenia", "am", "hy"}, {"армения", "am", "hy"},
	{"yerevan", "am", "hy"}, {"ереван", "am", "hy"},
	{"georgia", "ge", "ka"}, {"грузия", "ge", "ka"},
	{"tbilisi", "ge", "ka"}, {"тбилиси", "ge", "ka"},
	{"moldova", "md", "ro"}, {"молдова", "md", "ro"},
	{"chisinau", "md", "ro"}, {"кишинев", "md", "ro"},
	// Europe
	{"germany", "de", "de"}, {"deutschland", "de", "de"}, {"berlin", "de", "de"},
	{"france", "fr", "fr"}, {"paris", "fr", "fr"},
	{"italy", "it", "it"}, {"italia", "it", "it"}, {"rome", "it", "it"},
	{"spain", "es", "es"}, {"madrid", "es", "es"},
	{"united kingdom", "gb", "en"}, {"uk", "gb", "en"}, {"london", "gb", "en"},
	{"poland", "pl", "pl"}, {"warsaw", "pl", "pl"},
	// Asia
	{"china", "cn", "zh"}, {"beijing", "cn", "zh"}, {"shanghai", "cn", "zh"},
	{"japan", "jp", "ja"}, {"tokyo", "jp", "ja"},
	{"south korea", "kr", "ko"}, {"seoul", "kr", "ko"},
	{"india", "in", "en"}, {"mumbai", "in", "en"}, {"delhi", "in", "en"},
	{"turkey", "tr", "tr"}, {"istanbul", "tr", "tr"}, {"ankara", "tr", "tr"},
	// Americas
	{"united states", "us", "en"}, {"usa", "us", "en"},
	{"new york", "us", "en"}, {"los angeles", "us", "en"},
	{"canada", "ca", "en"}, {"toronto", "ca", "en"}, {"vancouver", "ca", "en"},
	{"brazil", "br", "pt"}, {"sao paulo", "br", "pt"}, {"rio de janeiro", "br", "pt"},
	{"mexico", "mx", "es"}, {"mexico city", "mx", "es"},
}

var tokenIndex = buildTokenIndex()

func buildTokenIndex() map[string]entry {
	index := make(map[string]entry, len(countryEntries))
	for _, e := range countryEntries {
		if _, ok := index[e.token]; !ok {
			index[e.token] = e
		}
	}
	return index
}

// additionalLanguages lists secondary search languages for multilingual
// countries.
var additionalLanguages = map[string][]string{
	"kz": {"kk", "en"},
	"ru": {"en"},
	"ua": {"ru", "en"},
	"by": {"en"},
	"uz": {"ru", "en"},
	"kg": {"ru", "en"},
	"tj": {"ru", "en"},
	"tm": {"ru", "en"},
	"az": {"ru", "en"},
	"am": {"ru", "en"},
	"ge": {"ru", "en"},
	"md": {"ru", "en"},
}

var countryNames = map[string]string{
	"kz": "Kazakhstan", "ru": "Russia", "ua": "Ukraine", "by": "Belarus",
	"uz": "Uzbekistan", "kg": "Kyrgyzstan", "tj": "Tajikistan",
	"tm": "Turkmenistan", "az": "Azerbaijan", "am": "Armenia",
	"ge": "Georgia", "md": "Moldova",
	"de": "Germany", "fr": "France", "it": "Italy", "es": "Spain",
	"gb": "United Kingdom", "pl": "Poland",
	"cn": "China", "jp": "Japan", "kr": "South Korea", "in": "India",
	"tr": "Turkey",
	"us": "United States", "ca": "Canada", "br": "Brazil", "mx": "Mexico",
}

// cisCountries is the regional group sharing secondary languages and
// local B2B marketplaces.
var cisCountries = map[string]bool{
	"kz": true, "ru": true, "ua": true, "by": true, "uz": true, "kg": true,
	"tj": true, "tm": true, "az": true, "am": true, "ge": true, "md": true,
}

var localSourceSuffixes = []string{"all.biz", "exportpages.com", "tradekey.com"}

var defaultTrustedSources = []string{"alibaba.com", "globalsources.com", "made-in-china.com"}

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Resolve maps a free-text location to a full LocationProfile. It never
// fails: unknown locations yield the default country profile.
func Resolve(location string) domain.LocationProfile {
	code, language := detect(location)
	return domain.LocationProfile{
		CountryCode:     code,
		Language:        language,
		ExtraLanguages:  append([]string(nil), additionalLanguages[code]...),
		CountryName:     FullName(code),
		LocalSources:    LocalSources(code),
		TrustedSources:  TrustedSources(code),
		IsRegionalGroup: IsRegionalGroup(code),
	}
}

func detect(location string) (code, language string) {
	normalized := normalize(location)
	if normalized == "" {
		return DefaultCountryCode, DefaultLanguage
	}

	for _, token := range strings.Fields(normalized) {
		if e, ok := tokenIndex[token]; ok {
			return e.code, e.language
		}
	}

	lowered := strings.ToLower(strings.TrimSpace(location))
	for _, e := range countryEntries {
		if strings.Contains(lowered, e.token) {
			return e.code, e.language
		}
	}

	return DefaultCountryCode, DefaultLanguage
}

func normalize(location string) string {
	lowered := strings.ToLower(strings.TrimSpace(location))
	cleaned := nonWordRe.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))
}

// FullName returns the human-readable country name used inside generated
// queries; unknown codes fall back to the code itself.
func FullName(countryCode string) string {
	if name, ok := countryNames[countryCode]; ok {
		return name
	}
	return countryCode
}

// IsRegionalGroup reports membership in the CIS regional group.
func IsRegionalGroup(countryCode string) bool {
	return cisCountries[countryCode]
}

// LocalSources returns per-country B2B marketplace domains. Countries
// without local marketplaces get none.
func LocalSources(countryCode string) []string {
	if !cisCountries[countryCode] {
		return nil
	}
	sources := make([]string, 0, len(localSourceSuffixes))
	for _, suffix := range localSourceSuffixes {
		sources = append(sources, countryCode+"."+suffix)
	}
	return sources
}

// TrustedSources returns regionally-trusted marketplace domains, with a
// global default for unmatched countries.
func TrustedSources(countryCode string) []string {
	base := append([]string(nil), defaultTrustedSources...)
	switch {
	case cisCountries[countryCode]:
		return append(base, "indiamart.com")
	case countryCode == "cn" || countryCode == "jp" || countryCode == "kr":
		return append(base, "tradekey.com")
	case countryCode == "us" || countryCode == "ca":
		return append(base, "exportersindia.com")
	case countryCode == "de" || countryCode == "fr" || countryCode == "it" ||
		countryCode == "es" || countryCode == "gb":
		return append(base, "tradekey.com")
	default:
		return base
	}
}

package language

import "strings"

// Undefined is the ISO 639-2 code for an unspecified language.
const Undefined = "und"

type entry struct {
	iso1    string
	iso2T   string
	iso2B   string
	display string
}

var table = []entry{
	{"ar", "ara", "", "Arabic"},
	{"cs", "ces", "cze", "Czech"},
	{"da", "dan", "", "Danish"},
	{"de", "deu", "ger", "German"},
	{"el", "ell", "gre", "Greek"},
	{"en", "eng", "", "English"},
	{"es", "spa", "", "Spanish"},
	{"fi", "fin", "", "Finnish"},
	{"fr", "fra", "fre", "French"},
	{"he", "heb", "", "Hebrew"},
	{"hi", "hin", "", "Hindi"},
	{"hu", "hun", "", "Hungarian"},
	{"id", "ind", "", "Indonesian"},
	{"it", "ita", "", "Italian"},
	{"ja", "jpn", "", "Japanese"},
	{"ko", "kor", "", "Korean"},
	{"ms", "msa", "may", "Malay"},
	{"nl", "nld", "dut", "Dutch"},
	{"no", "nor", "", "Norwegian"},
	{"pl", "pol", "", "Polish"},
	{"pt", "por", "", "Portuguese"},
	{"ro", "ron", "rum", "Romanian"},
	{"ru", "rus", "", "Russian"},
	{"sv", "swe", "", "Swedish"},
	{"th", "tha", "", "Thai"},
	{"tr", "tur", "", "Turkish"},
	{"uk", "ukr", "", "Ukrainian"},
	{"vi", "vie", "", "Vietnamese"},
	{"zh", "zho", "chi", "Chinese"},
}

var byCode map[string]*entry

func init() {
	byCode = make(map[string]*entry, len(table)*3)
	for i := range table {
		e := &table[i]
		byCode[e.iso1] = e
		byCode[e.iso2T] = e
		if e.iso2B != "" {
			byCode[e.iso2B] = e
		}
	}
}

func normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	// Strip IETF region/script suffixes such as "en-US" or "zh-Hant".
	if idx := strings.IndexAny(code, "-_"); idx > 0 {
		code = code[:idx]
	}
	return code
}

// Equivalent reports whether a and b name the same language. Comparison is
// case-insensitive; unknown codes are only equivalent to themselves.
func Equivalent(a, b string) bool {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	ea, eb := byCode[na], byCode[nb]
	return ea != nil && ea == eb
}

// IsUndefined reports whether code carries no language information.
func IsUndefined(code string) bool {
	n := normalize(code)
	return n == "" || n == Undefined
}

// Valid reports whether code is shaped like an ISO 639-1 or 639-2 code.
func Valid(code string) bool {
	n := normalize(code)
	if len(n) != 2 && len(n) != 3 {
		return false
	}
	for _, r := range n {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// DisplayName returns a human-readable language name for a recognised code,
// or the upper-cased code otherwise.
func DisplayName(code string) string {
	n := normalize(code)
	switch {
	case n == "":
		return "Unknown"
	case n == Undefined:
		return "Undefined"
	}
	if e := byCode[n]; e != nil {
		return e.display
	}
	return strings.ToUpper(n)
}

// NormalizeList lower-cases, trims and de-duplicates a list of codes while
// keeping the caller's spelling of each first occurrence.
func NormalizeList(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		trimmed := strings.ToLower(strings.TrimSpace(code))
		if trimmed == "" {
			continue
		}
		duplicate := false
		for _, existing := range out {
			if Equivalent(existing, trimmed) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

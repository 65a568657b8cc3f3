package pdf

import "strings"

// asciiMap transliterates Polish, German and French diacritics so client
// names and notes survive the core-font character set.
var asciiMap = map[rune]string{
	'ą': "a", 'ć': "c", 'ę': "e", 'ł': "l", 'ń': "n",
	'ó': "o", 'ś': "s", 'ź': "z", 'ż': "z",
	'Ą': "A", 'Ć': "C", 'Ę': "E", 'Ł': "L", 'Ń': "N",
	'Ó': "O", 'Ś': "S", 'Ź': "Z", 'Ż': "Z",

	'ä': "a", 'ö': "o", 'ü': "u", 'ß': "ss",
	'Ä': "A", 'Ö': "O", 'Ü': "U",

	'à': "a", 'â': "a", 'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'î': "i", 'ï': "i", 'ô': "o", 'ù': "u", 'û': "u", 'ç': "c",
	'À': "A", 'Â': "A", 'É': "E", 'È': "E", 'Ê': "E", 'Ë': "E",
	'Î': "I", 'Ï': "I", 'Ô': "O", 'Ù': "U", 'Û': "U", 'Ç': "C",
}

// toASCII transliterates known diacritics and passes everything else through
func toASCII(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if repl, ok := asciiMap[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Package regions holds the fixed list of locations a request may name.
package regions

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// All lists the supported regions in display order.
var All = []string{
	"Vinnytsia Oblast",
	"Volyn Oblast",
	"Dnipropetrovsk Oblast",
	"Donetsk Oblast",
	"Zhytomyr Oblast",
	"Zakarpattia Oblast",
	"Zaporizhzhia Oblast",
	"Ivano-Frankivsk Oblast",
	"Kyiv Oblast",
	"Kirovohrad Oblast",
	"Luhansk Oblast",
	"Lviv Oblast",
	"Mykolaiv Oblast",
	"Odesa Oblast",
	"Poltava Oblast",
	"Rivne Oblast",
	"Sumy Oblast",
	"Ternopil Oblast",
	"Kharkiv Oblast",
	"Kherson Oblast",
	"Khmelnytskyi Oblast",
	"Cherkasy Oblast",
	"Chernivtsi Oblast",
	"Chernihiv Oblast",
}

var byFold = func() map[string]string {
	m := make(map[string]string, len(All))
	for _, r := range All {
		m[text.Fold(r)] = r
	}
	return m
}()

// Canonical returns the listed spelling of name, matched case- and
// accent-insensitively, and whether it is a supported region.
func Canonical(name string) (string, bool) {
	r, ok := byFold[text.Fold(strings.TrimSpace(name))]
	return r, ok
}

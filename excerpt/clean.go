package excerpt

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// dropped lists elements removed together with their content.
var dropped = map[atom.Atom]bool{
	atom.Pre:    true,
	atom.H1:     true,
	atom.H2:     true,
	atom.H3:     true,
	atom.H4:     true,
	atom.H5:     true,
	atom.H6:     true,
	atom.Script: true,
	atom.Style:  true,
}

// Clean removes code blocks, headings and every tag except inline <code>
// from fragment and trims surrounding whitespace. Text is copied verbatim,
// so entities stay escaped. A <code> span left open at the end of the
// fragment is closed. A dropped element that is never closed is kept with
// its tags stripped.
func Clean(fragment string) string {
	var b, held strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	openCode, heldCode := 0, 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if skip > 0 {
				b.WriteString(held.String())
				openCode += heldCode
			}
			for ; openCode > 0; openCode-- {
				b.WriteString(codeClose)
			}
			return strings.TrimSpace(b.String())

		case html.TextToken:
			if skip == 0 {
				b.Write(z.Raw())
			} else {
				held.Write(z.Raw())
			}

		case html.StartTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if dropped[a] {
				if skip == 0 {
					held.Reset()
					heldCode = 0
				}
				skip++
				continue
			}
			if a != atom.Code {
				continue
			}
			if skip == 0 {
				b.WriteString(codeOpen)
				openCode++
			} else {
				held.WriteString(codeOpen)
				heldCode++
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if dropped[a] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if a != atom.Code {
				continue
			}
			switch {
			case skip == 0 && openCode > 0:
				b.WriteString(codeClose)
				openCode--
			case skip > 0 && heldCode > 0:
				held.WriteString(codeClose)
				heldCode--
			}
		}
	}
}

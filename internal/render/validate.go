package render

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ErrValidationFailed wraps the individual structural errors when a rendered
// page fails validation. Callers treat it as blocking before publication.
var ErrValidationFailed = errors.New("storage HTML failed structure validation")

// voidElements never take a closing tag and are excluded from balancing.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Validate scans a document left to right and checks that every open tag is
// closed in order. The scan never aborts: a mismatched closing tag is
// reported and the open stack left alone, an unexpected closing tag is
// reported and skipped, and everything still open at end of input is
// reported as unclosed in most-recently-opened-first order. The result is
// advisory; Validate never modifies its input.
func Validate(doc string) []error {
	tz := html.NewTokenizer(strings.NewReader(doc))
	var stack []string
	var errs []error

scan:
	for {
		switch tz.Next() {
		case html.ErrorToken:
			break scan
		case html.StartTagToken:
			name, _ := tz.TagName()
			if tag := string(name); !voidElements[tag] {
				stack = append(stack, tag)
			}
		case html.EndTagToken:
			name, _ := tz.TagName()
			tag := string(name)
			if voidElements[tag] {
				continue
			}
			if len(stack) == 0 {
				errs = append(errs, fmt.Errorf("closing tag </%s> with no open element", tag))
				continue
			}
			if top := stack[len(stack)-1]; top != tag {
				errs = append(errs, fmt.Errorf("closing tag </%s> does not match open <%s>", tag, top))
				continue
			}
			stack = stack[:len(stack)-1]
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		errs = append(errs, fmt.Errorf("unclosed tag <%s>", stack[i]))
	}

	return errs
}

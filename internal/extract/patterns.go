package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultChannels are the transaction channel tags recognized in settlement
// report lines. Order matters: a page is matched channel by channel, and
// when one MTCN appears under two tags the later channel wins.
var DefaultChannels = []string{"AUK", "MMT", "DIG"}

const (
	// DefaultTotalLabel marks the line carrying the document-wide total.
	DefaultTotalLabel = "Network Total"
	// DefaultPaidHeader opens the paid-out section of a report.
	DefaultPaidHeader = "Paid Out"
)

// Fragments shared by the line patterns. A settlement line carries, in
// order: a 10-digit MTCN, an optional marker token, the channel tag with a
// numeric suffix, a signed primary amount, two unsigned auxiliary numbers,
// one or two FX/commission fields, and the trailing net settlement.
const (
	mtcnFrag     = `(?P<mtcn>\d{10})`
	markerFrag   = `(?:[A-Z*]{1,2}\s+)?`
	signedFrag   = `-?[\d,]+\.\d{2}`
	unsignedFrag = `[\d,]+\.\d{2}`
)

type channelPattern struct {
	tag     string
	re      *regexp.Regexp
	mtcnIdx int
	netIdx  int
}

// patternTable holds one compiled pattern per channel plus the paid-out
// pattern, which is structurally identical across all tags but requires the
// primary amount to be negative.
type patternTable struct {
	channels []channelPattern
	paid     *regexp.Regexp
	paidMTCN int
	paidPrim int
}

// lineExpr builds the settlement-line expression for the given tag
// alternation and primary-amount fragment. The second FX field is optional;
// the final amount group is the net settlement.
func lineExpr(tags, primary string) string {
	return mtcnFrag + `\s+` + markerFrag + `(?:` + tags + `)\d+` +
		`\s+(?P<primary>` + primary + `)` +
		`\s+` + unsignedFrag +
		`\s+` + unsignedFrag +
		`\s+` + signedFrag +
		`(?:\s+` + signedFrag + `)?` +
		`\s+(?P<net>` + signedFrag + `)`
}

func newPatternTable(channels []string) *patternTable {
	t := &patternTable{}
	quoted := make([]string, 0, len(channels))
	for _, tag := range channels {
		quoted = append(quoted, regexp.QuoteMeta(tag))
		re := regexp.MustCompile(lineExpr(regexp.QuoteMeta(tag), signedFrag))
		t.channels = append(t.channels, channelPattern{
			tag:     tag,
			re:      re,
			mtcnIdx: re.SubexpIndex("mtcn"),
			netIdx:  re.SubexpIndex("net"),
		})
	}
	t.paid = regexp.MustCompile(lineExpr(strings.Join(quoted, "|"), `-[\d,]+\.\d{2}`))
	t.paidMTCN = t.paid.SubexpIndex("mtcn")
	t.paidPrim = t.paid.SubexpIndex("primary")
	return t
}

// plainNumberRe accepts bare numeric tokens: optional leading minus,
// optional thousands separators, optional fraction.
var plainNumberRe = regexp.MustCompile(`^-?[0-9][0-9,]*(\.[0-9]+)?$`)

// parseAmount parses a matched money token, tolerating thousands
// separators.
func parseAmount(tok string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(tok, ",", ""))
}

// parsePlainNumber reports whether tok is a bare number and returns its
// value.
func parsePlainNumber(tok string) (decimal.Decimal, bool) {
	if !plainNumberRe.MatchString(tok) {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", ""))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

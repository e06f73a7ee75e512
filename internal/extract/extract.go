package extract

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Entry is one extracted money-transfer record.
type Entry struct {
	// MTCN is the 10-digit transfer identifier.
	MTCN string `csv:"mtcn"`
	// Amount is the net settlement parsed from the matched line.
	Amount decimal.Decimal `csv:"amount"`
	// Page is the 1-based page the line was found on.
	Page int `csv:"page"`
	// Line is reserved; it is always zero today.
	Line int `csv:"line"`
	// NetworkTotal is the document-wide total, replicated on every entry
	// extracted from the same document.
	NetworkTotal decimal.Decimal `csv:"network_total"`
}

// Options configure an Extractor. Zero values fall back to the defaults.
type Options struct {
	Channels   []string
	TotalLabel string
	PaidHeader string
}

// Extractor turns decoded page texts into deduplicated settlement entries.
type Extractor struct {
	table      *patternTable
	totalLabel string
	paidHeader string
}

func New(opts Options) *Extractor {
	channels := opts.Channels
	if len(channels) == 0 {
		channels = DefaultChannels
	}
	totalLabel := opts.TotalLabel
	if totalLabel == "" {
		totalLabel = DefaultTotalLabel
	}
	paidHeader := opts.PaidHeader
	if paidHeader == "" {
		paidHeader = DefaultPaidHeader
	}
	return &Extractor{
		table:      newPatternTable(channels),
		totalLabel: totalLabel,
		paidHeader: paidHeader,
	}
}

// ExtractDocument runs two full passes over the ordered page texts of one
// document. The first pass collects the paid-out exclusion set and the
// network total; the second collects entries. The passes stay separate
// because collection depends on the completed pass-1 state.
func (e *Extractor) ExtractDocument(pages []string) []Entry {
	paid := make(map[string]bool)
	var total decimal.Decimal
	inPaidSection := false
	for i, text := range pages {
		if strings.Contains(text, e.totalLabel) {
			if v, ok := lastNumberOnLabelLine(text, e.totalLabel); ok {
				// Scanning never short-circuits, so the last qualifying
				// page wins.
				total = v
				log.Debug().Int("page", i+1).Str("total", v.String()).Msg("network total found")
			}
		}
		if !inPaidSection && strings.Contains(text, e.paidHeader) {
			inPaidSection = true
			log.Debug().Int("page", i+1).Msg("entering paid-out section")
		}
		if !inPaidSection {
			continue
		}
		e.collectPaidOut(text, paid)
		// The section continues onto the next page only while the current
		// page still has lines ending in a negative amount.
		inPaidSection = hasTrailingNegative(text)
	}

	var entries []Entry
	seen := make(map[string]bool)
	skippedPaid := 0
	for i, text := range pages {
		page := e.matchPage(text, i+1)
		ids := make([]string, 0, len(page))
		for id := range page {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if paid[id] {
				skippedPaid++
				continue
			}
			en := page[id]
			if en.Amount.IsZero() {
				continue
			}
			if seen[id] {
				// First occurrence across the document wins.
				continue
			}
			seen[id] = true
			en.NetworkTotal = total
			entries = append(entries, en)
		}
		log.Debug().Int("page", i+1).Int("matches", len(page)).Msg("page scanned")
	}

	log.Info().
		Int("entries", len(entries)).
		Int("paidOut", len(paid)).
		Int("skippedPaid", skippedPaid).
		Str("networkTotal", total.String()).
		Msg("document extracted")
	return entries
}

// matchPage applies every channel pattern independently to one page and
// unions the results. An MTCN matched twice under one channel is removed
// from that channel entirely, original occurrence included; across channels
// the later-processed channel wins.
func (e *Extractor) matchPage(text string, pageNum int) map[string]Entry {
	merged := make(map[string]Entry)
	for _, cp := range e.table.channels {
		found := make(map[string]Entry)
		dups := make(map[string]bool)
		for _, m := range cp.re.FindAllStringSubmatchIndex(text, -1) {
			mtcn := text[m[2*cp.mtcnIdx]:m[2*cp.mtcnIdx+1]]
			net, err := parseAmount(text[m[2*cp.netIdx]:m[2*cp.netIdx+1]])
			if err != nil {
				log.Warn().Err(err).
					Str("channel", cp.tag).
					Str("mtcn", mtcn).
					Int("page", pageNum).
					Msg("unparseable settlement amount; skipping match")
				continue
			}
			if _, ok := found[mtcn]; ok {
				dups[mtcn] = true
				continue
			}
			found[mtcn] = Entry{MTCN: mtcn, Amount: net, Page: pageNum}
		}
		for id := range dups {
			delete(found, id)
		}
		if len(dups) > 0 {
			log.Debug().
				Int("page", pageNum).
				Str("channel", cp.tag).
				Int("removed", len(dups)).
				Msg("duplicate identifiers removed")
		}
		for id, en := range found {
			merged[id] = en
		}
	}
	return merged
}

// collectPaidOut applies the paid-out pattern and records every identifier
// whose primary amount parses negative.
func (e *Extractor) collectPaidOut(text string, paid map[string]bool) {
	t := e.table
	for _, m := range t.paid.FindAllStringSubmatchIndex(text, -1) {
		mtcn := text[m[2*t.paidMTCN]:m[2*t.paidMTCN+1]]
		prim, err := parseAmount(text[m[2*t.paidPrim]:m[2*t.paidPrim+1]])
		if err != nil {
			log.Warn().Err(err).Str("mtcn", mtcn).Msg("unparseable paid-out amount; skipping match")
			continue
		}
		if prim.IsNegative() {
			paid[mtcn] = true
		}
	}
}

// Merge folds per-document results into one collection keyed by MTCN. The
// first document to produce an identifier wins; later duplicates are
// dropped.
func Merge(docs ...[]Entry) []Entry {
	seen := make(map[string]bool)
	out := make([]Entry, 0)
	for _, doc := range docs {
		for _, en := range doc {
			if seen[en.MTCN] {
				continue
			}
			seen[en.MTCN] = true
			out = append(out, en)
		}
	}
	return out
}

// lastNumberOnLabelLine finds the first line containing label and returns
// the last token on it that parses as a plain number.
func lastNumberOnLabelLine(text, label string) (decimal.Decimal, bool) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, label) {
			continue
		}
		var last decimal.Decimal
		found := false
		for _, tok := range strings.Fields(line) {
			if d, ok := parsePlainNumber(tok); ok {
				last = d
				found = true
			}
		}
		if found {
			return last, true
		}
	}
	return decimal.Decimal{}, false
}

// hasTrailingNegative reports whether any line in text ends with a token
// that parses as a negative number.
func hasTrailingNegative(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if d, ok := parsePlainNumber(fields[len(fields)-1]); ok && d.IsNegative() {
			return true
		}
	}
	return false
}

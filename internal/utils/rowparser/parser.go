// Package rowparser turns raw transaction file content into normalized records.
//
// Lines are parsed independently; a malformed line is dropped and reported
// through a SkipFunc, while an unparseable date aborts the whole sequence.
// Quoted fields containing embedded commas are not supported.
package rowparser

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/SscSPs/sftp_txn_ingest/internal/apperrors"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/shopspring/decimal"
)

// HeaderPrefix is the expected column sequence, lower-cased and without quotes.
const HeaderPrefix = "id,clientid,transaction,amount,date,status"

// DateLayout is the accepted format of the date column.
const DateLayout = "2006-01-02"

// FieldCount is the minimum number of comma-separated fields in a data line.
const FieldCount = 6

const utf8BOM = "\uFEFF"

// SkipFunc receives the 1-based line number and cause of every dropped line.
type SkipFunc func(lineNo int, err error)

// Records returns a lazy sequence over the records in raw. Malformed lines are
// passed to onSkip (which may be nil) and dropped. A date parse failure is
// yielded as an error and ends the sequence.
func Records(raw []byte, onSkip SkipFunc) iter.Seq2[domain.TransactionRecord, error] {
	return func(yield func(domain.TransactionRecord, error) bool) {
		text := strings.ToValidUTF8(string(raw), "\uFFFD")
		text = strings.TrimPrefix(text, utf8BOM)

		lineNo := 0
		for line := range strings.Lines(text) {
			lineNo++
			rec, err := ParseLine(line)
			if err != nil {
				if errors.Is(err, apperrors.ErrMalformedLine) {
					if onSkip != nil {
						onSkip(lineNo, err)
					}
					continue
				}
				yield(domain.TransactionRecord{}, fmt.Errorf("line %d: %w", lineNo, err))
				return
			}
			if rec == nil {
				continue
			}
			if !yield(*rec, nil) {
				return
			}
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[domain.TransactionRecord, error]) ([]domain.TransactionRecord, error) {
	var records []domain.TransactionRecord
	for rec, err := range seq {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseLine parses a single line. It returns (nil, nil) for blank and header
// lines, an error wrapping apperrors.ErrMalformedLine for lines that should be
// dropped, and an error wrapping apperrors.ErrInvalidDate for a bad date.
func ParseLine(line string) (*domain.TransactionRecord, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, nil
	}

	trimmed = stripLineQuotes(trimmed)
	if IsHeader(trimmed) {
		return nil, nil
	}

	fields := strings.Split(trimmed, ",")
	if len(fields) < FieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", apperrors.ErrMalformedLine, FieldCount, len(fields))
	}
	trimDanglingQuotes(fields)
	for i := range FieldCount {
		fields[i] = cleanField(fields[i])
	}

	id := fields[0]
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", apperrors.ErrMalformedLine)
	}

	kind, ok := domain.ParseTransactionKind(fields[2])
	if !ok {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrMalformedLine, fields[2])
	}

	amount, err := parseAmount(fields[3])
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(DateLayout, fields[4])
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", apperrors.ErrInvalidDate, fields[4], err)
	}

	return &domain.TransactionRecord{
		ID:       id,
		ClientID: fields[1],
		Kind:     kind,
		Amount:   amount,
		Date:     date,
		Status:   domain.NormalizeStatus(fields[5]),
	}, nil
}

// IsHeader reports whether line starts with the expected column names,
// ignoring case and quote characters.
func IsHeader(line string) bool {
	unquoted := strings.NewReplacer(`"`, "", `'`, "").Replace(line)
	return strings.HasPrefix(strings.ToLower(unquoted), HeaderPrefix)
}

func isQuote(c byte) bool {
	return c == '"' || c == '\''
}

// stripLineQuotes removes the outer quote pair when the whole line is one quoted
// value. A line such as "1","A",... holds several pairs and is left alone.
func stripLineQuotes(s string) string {
	if len(s) < 2 || !isQuote(s[0]) || s[0] != s[len(s)-1] {
		return s
	}
	inner := s[1 : len(s)-1]
	if strings.IndexByte(inner, s[0]) >= 0 {
		return s
	}
	return inner
}

// trimDanglingQuotes drops a leading quote on the first field and a trailing
// quote on the last one when it has no partner in that field. This covers a
// quoted line whose inner fields are quoted too, which stripLineQuotes keeps.
func trimDanglingQuotes(fields []string) {
	first := strings.TrimSpace(fields[0])
	if len(first) > 0 && isQuote(first[0]) && strings.IndexByte(first[1:], first[0]) < 0 {
		fields[0] = first[1:]
	}
	last := strings.TrimSpace(fields[len(fields)-1])
	if n := len(last); n > 0 && isQuote(last[n-1]) && strings.IndexByte(last[:n-1], last[n-1]) < 0 {
		fields[len(fields)-1] = last[:n-1]
	}
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && isQuote(s[0]) && s[0] == s[len(s)-1] {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	filtered := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	if filtered == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty amount %q", apperrors.ErrMalformedLine, raw)
	}
	amount, err := decimal.NewFromString(filtered)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: amount %q: %v", apperrors.ErrMalformedLine, raw, err)
	}
	return amount, nil
}

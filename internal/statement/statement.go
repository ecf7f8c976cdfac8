package statement

import (
	"fmt"
	"hash/fnv"
	"io"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/encoding"
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

// Direction tells money coming in from money going out.
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// Line is one movement on a bank statement. Amount is always positive.
type Line struct {
	Row         int
	Date        time.Time
	Amount      decimal.Decimal
	Direction   Direction
	Description string
	// Occurrence counts identical movements (same date, amount, direction and
	// description) earlier in the same statement, starting at 1.
	Occurrence int
}

func (l Line) key() string {
	return fmt.Sprintf("%s|%s|%s|%s", l.Date.Format(time.DateOnly), l.Amount.StringFixed(2), l.Direction, l.Description)
}

// Ref is a stable reference for the line, used as the payment transaction
// ref so that importing the same statement twice records nothing new.
// Identical movements on one statement get distinct refs through Occurrence.
func (l Line) Ref() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d", l.key(), l.Occurrence)

	return fmt.Sprintf("stmt-%016x", h.Sum64())
}

// numberOccurrences sets Occurrence on every line.
func numberOccurrences(lines []Line) {
	seen := make(map[string]int, len(lines))

	for i := range lines {
		k := lines[i].key()
		seen[k]++
		lines[i].Occurrence = seen[k]
	}
}

// Parser reads a UTF-8 statement export.
type Parser interface {
	Parse(r io.Reader) ([]Line, error)
}

// Statement is a parsed export together with the charset it was decoded from.
type Statement struct {
	Bank    Bank
	Charset encoding.Charset
	Lines   []Line
}

// Credits returns the incoming movements.
func (s *Statement) Credits() []Line {
	return lo.Filter(s.Lines, func(l Line, _ int) bool { return l.Direction == Credit })
}

package statement

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/lexbill/internal/encoding"
)

var (
	ErrUnknownBank = errors.New("unknown bank")
	// ErrInvalidStatement wraps every failure to decode or parse an export.
	ErrInvalidStatement = errors.New("invalid statement")
)

type Service struct {
	parsers map[Bank]Parser
}

func NewService(parsers map[Bank]Parser) *Service {
	return &Service{parsers: parsers}
}

// Parse decodes r to UTF-8 and hands it to the parser registered for bank.
func (s *Service) Parse(bank Bank, r io.Reader) (*Statement, error) {
	parser, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, bank)
	}

	utf8r, charset, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: detect encoding: %w", ErrInvalidStatement, err)
	}

	lines, err := parser.Parse(utf8r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s statement: %w", ErrInvalidStatement, bank, err)
	}

	numberOccurrences(lines)

	slog.Info("statement parsed", "bank", bank, "charset", charset, "lines", len(lines))

	return &Statement{Bank: bank, Charset: charset, Lines: lines}, nil
}

package parsing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"plotser/models"
)

// ErrNotData marks a line that isn't a whitespace separated list of numbers. Callers
// should skip the line and keep reading.
var ErrNotData = errors.New("line is not numeric data")

type Parser struct {
	mode models.NumericMode
}

func NewParser(mode models.NumericMode) *Parser {
	return &Parser{mode}
}

func (p *Parser) Mode() models.NumericMode {
	return p.mode
}

// Parse turns one line, terminator already stripped, into its values in channel order.
// A blank line is valid and yields no values. If any token fails to convert nothing from
// the line is returned.
func (p *Parser) Parse(line string) ([]float64, error) {
	tokens := strings.Fields(line)
	values := make([]float64, 0, len(tokens))
	for _, token := range tokens {
		value, err := p.convert(token)
		if err != nil {
			return nil, fmt.Errorf("token %q: %w", token, ErrNotData)
		}
		values = append(values, value)
	}
	return values, nil
}

func (p *Parser) convert(token string) (float64, error) {
	if p.mode == models.Int {
		i, err := strconv.ParseInt(token, 10, 64)
		// Exact up to ±2^53.
		return float64(i), err
	}
	return strconv.ParseFloat(token, 64)
}

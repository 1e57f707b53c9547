// Package css parses inline style declarations found on HTML table elements.
package css

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS declarations into structured values.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ParseDeclarations parses the content of a style attribute. Malformed
// declarations are skipped.
func (p *Parser) ParseDeclarations(style string) Declarations {
	var decls Declarations
	if strings.TrimSpace(style) == "" {
		return decls
	}

	parser := css.NewParser(parse.NewInputString(style), true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			err := parser.Err()
			if err == nil {
				// malformed declaration, parser recovers at the next one
				p.log.Debug("Skipping bad declaration", zap.String("style", style), zap.ByteString("data", data))
				continue
			}
			if !errors.Is(err, io.EOF) {
				p.log.Debug("CSS parse error", zap.String("style", style), zap.Error(err))
			}
			return decls

		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) == 0 {
				continue
			}
			decls.Set(string(data), p.parsePropertyValue(values))

		case css.CustomPropertyGrammar:
			// CSS custom properties (--var) are of no interest
			continue

		default:
			p.log.Debug("Unexpected grammar in inline style", zap.Stringer("grammar", gt), zap.String("style", style))
		}
	}
}

// ParseValue parses a single property value, e.g. content of an HTML width
// attribute.
func (p *Parser) ParseValue(s string) (Value, bool) {
	decls := p.ParseDeclarations("v:" + s)
	return decls.Get("v")
}

// parsePropertyValue converts CSS tokens to a Value.
func (p *Parser) parsePropertyValue(tokens []css.Token) Value {
	tokens, important := stripImportant(tokens)
	if len(tokens) == 0 {
		return Value{}
	}

	var rawParts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			rawParts = append(rawParts, string(t.Data))
		} else if len(rawParts) > 0 {
			rawParts = append(rawParts, " ")
		}
	}
	raw := strings.TrimSpace(strings.Join(rawParts, ""))

	val := Value{Raw: raw, Important: important}

	if len(tokens) == 1 {
		t := tokens[0]
		switch t.TokenType {
		case css.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
		case css.PercentageToken:
			val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
		case css.NumberToken:
			val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
		case css.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		case css.StringToken:
			val.Keyword = unquote(string(t.Data))
		case css.HashToken:
			// Color value
			val.Keyword = string(t.Data)
		default:
			val.Keyword = raw
		}
		return val
	}

	// Functions (rgb(), calc()) and multi-value properties
	val.Keyword = raw
	return val
}

// stripImportant removes surrounding whitespace and trailing "!important".
func stripImportant(tokens []css.Token) ([]css.Token, bool) {
	trim := func(ts []css.Token) []css.Token {
		for len(ts) > 0 && ts[0].TokenType == css.WhitespaceToken {
			ts = ts[1:]
		}
		for len(ts) > 0 && ts[len(ts)-1].TokenType == css.WhitespaceToken {
			ts = ts[:len(ts)-1]
		}
		return ts
	}
	tokens = trim(tokens)
	n := len(tokens)
	if n >= 2 && tokens[n-1].TokenType == css.IdentToken && strings.EqualFold(string(tokens[n-1].Data), "important") &&
		tokens[n-2].TokenType == css.DelimToken && string(tokens[n-2].Data) == "!" {
		return trim(tokens[:n-2]), true
	}
	return tokens, false
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}

	if numEnd == 0 {
		return 0, ""
	}

	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	unit := strings.ToLower(s[numEnd:])
	return num, unit
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

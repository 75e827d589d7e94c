package query

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWord
	TokenPhrase
	TokenPrefix
	TokenPrefixValue
	TokenPrefixValueQuoted
	TokenProperty
	TokenAnd
	TokenOr
	TokenNot
	TokenLParen
	TokenRParen
	TokenRange
)

// Token is one lexical unit of a query string. Value is the normalized
// payload (quotes and colons stripped); Original is the exact source
// substring, kept for error messages and quote detection; Position is the
// zero-based offset of Original in the query.
type Token struct {
	Type     TokenType
	Value    string
	Original string
	Position int
}

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of query"
	case TokenWord:
		return "word"
	case TokenPhrase:
		return "phrase"
	case TokenPrefix:
		return "filter prefix"
	case TokenPrefixValue, TokenPrefixValueQuoted:
		return "filter value"
	case TokenProperty:
		return "property filter"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenRange:
		return ".."
	default:
		return "unknown"
	}
}

// Binding powers order the parser's operators; only the relative order
// matters. Operands (words, filters, parens) carry the implicit-AND join
// power so juxtaposition binds tighter than NOT.
const (
	bindNone  = 0
	bindOr    = 10
	bindAnd   = 20
	bindNot   = 30
	bindJoin  = 40
	bindRange = 50
)

func bindingPower(t TokenType) int {
	switch t {
	case TokenOr:
		return bindOr
	case TokenAnd:
		return bindAnd
	case TokenNot:
		return bindNot
	case TokenWord, TokenPhrase, TokenPrefix, TokenProperty, TokenLParen:
		return bindJoin
	case TokenRange:
		return bindRange
	default:
		return bindNone
	}
}

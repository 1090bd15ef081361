package grammar

import "github.com/ghettovoice/abnf"

// Node keys of the parsed field values.
const (
	KeyType       = "type"
	KeySubtype    = "subtype"
	KeyParam      = "parameter"
	KeyParamName  = "parameter-name"
	KeyParamValue = "parameter-value"
	KeyQuoted     = "quoted-string"
	KeyElement    = "element"
	KeyLangRange  = "language-range"
	KeyDirective  = "cache-directive"
	KeyDirName    = "directive-name"

	keyGap = "gap"
)

// RFC 9110 Section 5.6, RFC 4647 Section 2.1.
//
// Rules that may stop in the middle of a value leave a gap node where a required
// element is missing, so a failed value still yields the longest node it was able to match.

func char(c byte) abnf.Operator { return abnf.LiteralCS(string(c), []byte{c}) }

func chars(key string, cs string) abnf.Operator {
	ops := make([]abnf.Operator, 0, len(cs))
	for i := range len(cs) {
		ops = append(ops, char(cs[i]))
	}
	return abnf.Alt(key, ops[0], ops[1:]...)
}

func rng(key string, lo, hi byte) abnf.Operator {
	return abnf.Range(key, []byte{lo}, []byte{hi})
}

func tok(key string) abnf.Operator { return abnf.Repeat1Inf(key, tchar) }

// gap matches nothing and marks the position of a missing element.
func gap(in []byte, pos uint, ns *abnf.Nodes) error {
	ns.Append(&abnf.Node{Key: keyGap, Pos: pos, Value: in[pos:pos]})
	return nil
}

// expect matches op or leaves a gap where op was expected.
func expect(key string, op abnf.Operator) abnf.Operator { return abnf.AltFirst(key, op, gap) }

var (
	alpha = abnf.Alt("ALPHA", rng("ALPHA", 'A', 'Z'), rng("ALPHA", 'a', 'z'))
	digit = rng("DIGIT", '0', '9')
	htab  = char('\t')
	sp    = char(' ')
	vchar = rng("VCHAR", 0x21, 0x7e)
	ows   = abnf.Repeat0Inf("OWS", abnf.Alt("WSP", sp, htab))

	obsText = rng("obs-text", 0x80, 0xff)

	tchar = abnf.Alt("tchar", alpha, digit, chars("tchar-symbol", "!#$%&'*+-.^_`|~"))
	token = tok("token")

	qdtext = abnf.Alt("qdtext",
		htab,
		sp,
		char('!'),
		rng("qdtext", 0x23, 0x5b),
		rng("qdtext", 0x5d, 0x7e),
		obsText,
	)
	quotedPair = abnf.Concat("quoted-pair",
		char('\\'),
		abnf.Alt("quoted-pair-char", htab, sp, vchar, obsText),
	)
	quotedString = abnf.Concat(KeyQuoted,
		char('"'),
		abnf.Repeat0Inf("quoted-string-text", abnf.Alt("quoted-string-char", qdtext, quotedPair)),
		expect("quoted-string-end", char('"')),
	)

	// parameter-value = token / quoted-string
	paramValue = abnf.Alt(KeyParamValue, token, quotedString)
	// parameter = parameter-name "=" parameter-value
	param = abnf.Concat(KeyParam,
		tok(KeyParamName),
		expect("parameter-assign", abnf.Concat("parameter-rest",
			char('='),
			expect("parameter-value-expected", paramValue),
		)),
	)
	// parameters = *( OWS ";" OWS [ parameter ] )
	params = abnf.Repeat0Inf("parameters", abnf.Concat("parameters-item",
		ows,
		char(';'),
		ows,
		abnf.Optional("parameter-opt", param),
	))

	// media-range = type [ "/" subtype ] parameters OWS
	mediaRange = abnf.ConcatAll("media-range",
		tok(KeyType),
		abnf.Optional("subtype-part", abnf.Concat("subtype-rest",
			char('/'),
			expect("subtype-expected", tok(KeySubtype)),
		)),
		params,
		ows,
	)

	// element = token parameters OWS
	element = abnf.ConcatAll("token-element", tok(KeyElement), params, ows)

	// language-range = ( 1*8ALPHA *( "-" 1*8alphanum ) ) / "*"
	langRange = abnf.Alt(KeyLangRange,
		abnf.Concat("language-tag",
			abnf.Repeat(KeyLangRange+"-primary", 1, 8, alpha),
			abnf.Repeat0Inf(KeyLangRange+"-subtags", abnf.Concat(KeyLangRange+"-subtag",
				char('-'),
				abnf.Repeat(KeyLangRange+"-alphanum", 1, 8, abnf.Alt("alphanum", alpha, digit)),
			)),
		),
		char('*'),
	)
	// language-element = language-range parameters OWS
	langElement = abnf.ConcatAll("language-element", langRange, params, ows)

	// cache-directive = token [ "=" ( token / quoted-string ) ]
	cacheDirective = abnf.Concat(KeyDirective,
		tok(KeyDirName),
		abnf.Optional("directive-rest", abnf.Concat("directive-assign",
			char('='),
			expect("directive-value-expected", paramValue),
		)),
	)
	// cache-control = OWS [ cache-directive ] *( OWS "," OWS [ cache-directive ] ) OWS
	cacheControl = abnf.ConcatAll("cache-control",
		ows,
		abnf.Optional("directive-opt", cacheDirective),
		abnf.Repeat0Inf("directives", abnf.Concat("directives-item",
			ows,
			char(','),
			ows,
			abnf.Optional("directive-opt", cacheDirective),
		)),
		ows,
	)
)

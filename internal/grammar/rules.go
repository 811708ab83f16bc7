package grammar

import "github.com/ghettovoice/abnf"

func lit(s string) abnf.Operator { return abnf.Literal(`"`+s+`"`, []byte(s)) }

func rng(key string, lo, hi byte) abnf.Operator { return abnf.Range(key, []byte{lo}, []byte{hi}) }

var (
	sp     = lit(" ")
	htab   = lit("\t")
	dquote = lit(`"`)
	alpha  = abnf.AltFirst("ALPHA", rng("%x41-5A", 0x41, 0x5A), rng("%x61-7A", 0x61, 0x7A))
	digit  = rng("DIGIT", 0x30, 0x39)
	hexdig = abnf.AltFirst("HEXDIG", digit, rng("%x41-46", 0x41, 0x46), rng("%x61-66", 0x61, 0x66))
	vchar  = rng("VCHAR", 0x21, 0x7E)
	obsTxt = rng("obs-text", 0x80, 0xFF)

	ows = abnf.Repeat0Inf("OWS", abnf.AltFirst("WSP", sp, htab))

	tchar = abnf.AltFirst("tchar",
		alpha, digit,
		lit("!"), lit("#"), lit("$"), lit("%"), lit("&"), lit("'"), lit("*"),
		lit("+"), lit("-"), lit("."), lit("^"), lit("_"), lit("`"), lit("|"), lit("~"),
	)
	token = abnf.Repeat1Inf("token", tchar)

	// qdtext = HTAB / SP / %x21 / %x23-5B / %x5D-7E / obs-text
	qdtext = abnf.AltFirst("qdtext",
		htab, sp, lit("!"), rng("%x23-5B", 0x23, 0x5B), rng("%x5D-7E", 0x5D, 0x7E), obsTxt,
	)
	quotedPair   = abnf.Concat("quoted-pair", lit(`\`), abnf.AltFirst("", htab, sp, vchar, obsTxt))
	quotedString = abnf.Concat("quoted-string",
		dquote,
		abnf.Repeat0Inf("", abnf.AltFirst("", qdtext, quotedPair)),
		dquote,
	)

	// parameter = parameter-name "=" parameter-value
	parameter = abnf.Concat("parameter",
		abnf.Concat("parameter-name", token),
		lit("="),
		abnf.AltFirst("parameter-value", token, quotedString),
	)
	// media-type = type "/" subtype parameters
	// parameters = *( OWS ";" OWS [ parameter ] )
	mediaType = abnf.Concat("media-type",
		abnf.Concat("type", token),
		lit("/"),
		abnf.Concat("subtype", token),
		abnf.Repeat0Inf("parameters", abnf.Concat("", ows, lit(";"), ows, abnf.Optional("", parameter))),
	)

	// token68 = 1*( ALPHA / DIGIT / "-" / "." / "_" / "~" / "+" / "/" ) *"="
	token68 = abnf.Concat("token68",
		abnf.Repeat1Inf("", abnf.AltFirst("", alpha, digit, lit("-"), lit("."), lit("_"), lit("~"), lit("+"), lit("/"))),
		abnf.Repeat0Inf("", lit("=")),
	)
	// auth-param = token BWS "=" BWS ( token / quoted-string )
	authParam = abnf.Concat("auth-param",
		abnf.Concat("auth-param-name", token),
		ows, lit("="), ows,
		abnf.AltFirst("auth-param-value", token, quotedString),
	)
	authParams = abnf.Concat("auth-params",
		authParam,
		abnf.Repeat0Inf("", abnf.Concat("", ows, lit(","), ows, authParam)),
	)
	// credentials = auth-scheme [ 1*SP ( token68 / #auth-param ) ]
	credentials = abnf.Concat("credentials",
		abnf.Concat("auth-scheme", token),
		abnf.Optional("", abnf.Concat("",
			abnf.Repeat1Inf("", sp),
			abnf.Alt("", token68, authParams),
		)),
	)

	// disposition = disposition-type *( OWS ";" OWS disposition-parm )
	disposition = abnf.Concat("disposition",
		abnf.Concat("disposition-type", token),
		abnf.Repeat0Inf("", abnf.Concat("", ows, lit(";"), ows, parameter)),
	)

	// attr-char = ALPHA / DIGIT / "!" / "#" / "$" / "&" / "+" / "-" / "." / "^" / "_" / "`" / "|" / "~"
	attrChar = abnf.AltFirst("attr-char",
		alpha, digit,
		lit("!"), lit("#"), lit("$"), lit("&"), lit("+"), lit("-"), lit("."),
		lit("^"), lit("_"), lit("`"), lit("|"), lit("~"),
	)
	mimeCharsetc = abnf.AltFirst("mime-charsetc",
		alpha, digit,
		lit("!"), lit("#"), lit("$"), lit("%"), lit("&"), lit("+"), lit("-"),
		lit("^"), lit("_"), lit("`"), lit("{"), lit("}"), lit("~"),
	)
	// ext-value = charset "'" [ language ] "'" value-chars
	extValue = abnf.Concat("ext-value",
		abnf.Concat("charset", abnf.Repeat1Inf("", mimeCharsetc)),
		lit("'"),
		abnf.Optional("", abnf.Concat("language", abnf.Repeat1Inf("", abnf.AltFirst("", alpha, digit, lit("-"))))),
		lit("'"),
		abnf.Concat("value-chars", abnf.Repeat0Inf("", abnf.AltFirst("",
			abnf.Concat("pct-encoded", lit("%"), hexdig, hexdig),
			attrChar,
		))),
	)
)

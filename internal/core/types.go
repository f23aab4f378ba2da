package core

// TokenType is the fixed "typ" header value.
const TokenType = "JWT"

// Header is the JOSE header carried in the first segment.
type Header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// NewHeader returns the header for the given algorithm name.
func NewHeader(alg string) Header {
	return Header{Type: TokenType, Algorithm: alg}
}

// Segments holds the raw, still encoded parts of a token.
type Segments struct {
	Header    string
	Payload   string
	Signature string
}

// SigningInput returns header "." payload.
func (s Segments) SigningInput() []byte {
	return SigningInput(s.Header, s.Payload)
}

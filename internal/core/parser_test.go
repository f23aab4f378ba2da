package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastSplit3(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantP1 string
		wantP2 string
		wantP3 string
		wantOk bool
	}{
		{"valid format", "header.payload.signature", "header", "payload", "signature", true},
		{"only one separator", "header.payload", "", "", "", false},
		{"no separator", "headerPayloadSignature", "", "", "", false},
		{"empty string", "", "", "", "", false},
		{"extra separators", "a.b.c.d", "", "", "", false},
		{"empty segments", "..", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p1, p2, p3, ok := fastSplit3(tt.input, '.')
			assert.Equal(t, tt.wantOk, ok)
			if ok {
				assert.Equal(t, tt.wantP1, p1)
				assert.Equal(t, tt.wantP2, p2)
				assert.Equal(t, tt.wantP3, p3)
			}
		})
	}
}

func TestSplitErrors(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{"empty token", "", "empty token"},
		{"token too large", strings.Repeat("a", DefaultMaxTokenLength+1), "exceeds"},
		{"no dots", "invalidtoken", "header.payload.signature"},
		{"one dot", "header.payload", "header.payload.signature"},
		{"three dots", "a.b.c.d", "header.payload.signature"},
		{"empty signature", "a.b.", "empty segment"},
		{"empty header", ".b.c", "empty segment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.token, DefaultMaxTokenLength)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedToken)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSplitWithoutLimit(t *testing.T) {
	long := strings.Repeat("a", DefaultMaxTokenLength*2)
	segs, err := Split(long+".b.c", 0)
	require.NoError(t, err)
	assert.Equal(t, long, segs.Header)
}

func TestAssembleSplitRoundTrip(t *testing.T) {
	token := Assemble("aaa", "bbb", "ccc")
	assert.Equal(t, "aaa.bbb.ccc", token)

	segs, err := Split(token, DefaultMaxTokenLength)
	require.NoError(t, err)
	assert.Equal(t, Segments{Header: "aaa", Payload: "bbb", Signature: "ccc"}, segs)
	assert.Equal(t, []byte("aaa.bbb"), segs.SigningInput())
}

func TestParseHeader(t *testing.T) {
	encoded, err := EncodeJSON(NewHeader("RS384"))
	require.NoError(t, err)

	header, segs, err := ParseHeader(Assemble(encoded, "cGF5bG9hZA", "c2ln"), DefaultMaxTokenLength)
	require.NoError(t, err)
	assert.Equal(t, "JWT", header.Type)
	assert.Equal(t, "RS384", header.Algorithm)
	assert.Equal(t, "cGF5bG9hZA", segs.Payload)
}

func TestParseHeaderMalformed(t *testing.T) {
	_, _, err := ParseHeader("!!!.cGF5bG9hZA.c2ln", DefaultMaxTokenLength)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedSegment)

	notJSON := EncodeBytes([]byte("not json"))
	_, _, err = ParseHeader(notJSON+".cGF5bG9hZA.c2ln", DefaultMaxTokenLength)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedSegment)
}

package alpha

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTokenMint(t *testing.T) {
	// 44 chars total, ends in "pump".
	validMint := "CzL7vzzHeGLZkPGr71rukufmrz9hE7JFDZnE4cPKpump"

	t.Run("finds mint in surrounding text", func(t *testing.T) {
		bio := "gm frens, new coin dropping " + validMint + " lfg"
		assert.Equal(t, validMint, ExtractTokenMint(bio))
	})

	t.Run("mint alone", func(t *testing.T) {
		assert.Equal(t, validMint, ExtractTokenMint(validMint))
	})

	t.Run("empty bio", func(t *testing.T) {
		assert.Equal(t, "", ExtractTokenMint(""))
	})

	t.Run("no mint at all", func(t *testing.T) {
		assert.Equal(t, "", ExtractTokenMint("just a guy who likes charts"))
	})

	t.Run("address without the suffix is ignored", func(t *testing.T) {
		bio := "trading So11111111111111111111111111111111111111112 all day"
		assert.Equal(t, "", ExtractTokenMint(bio))
	})

	t.Run("too short", func(t *testing.T) {
		// 20 chars + suffix = 24 total, below the 32 minimum.
		assert.Equal(t, "", ExtractTokenMint("xx 7vzzHeGLZkPGr71ruku"+"pump"+" xx"))
	})

	t.Run("too long", func(t *testing.T) {
		long := strings.Repeat("A", 45) + "pump"
		assert.Equal(t, "", ExtractTokenMint("mint: "+long))
	})

	t.Run("invalid base58 characters break the match", func(t *testing.T) {
		// 0, O, I and l are not in the base58 alphabet.
		assert.Equal(t, "", ExtractTokenMint("O0O0O0O0O0O0O0O0O0O0O0O0O0O0O0O0O0O0pump"))
	})

	t.Run("suffix mid-word does not match", func(t *testing.T) {
		bio := validMint + "tail"
		assert.Equal(t, "", ExtractTokenMint(bio))
	})

	t.Run("first match wins", func(t *testing.T) {
		other := "CzL7vzzHeGLZkPGr71rukufmrz9hE7JFDZnE4cPLpump"
		bio := validMint + " and " + other
		assert.Equal(t, validMint, ExtractTokenMint(bio))
	})
}

package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestDecodeTextUTF8(t *testing.T) {
	got, enc, err := decodeText([]byte("hello 世界"))
	require.NoError(t, err)
	assert.Equal(t, "hello 世界", got)
	assert.Equal(t, "utf-8", enc)
}

func TestDecodeTextGBKFallback(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("中文内容测试"))
	require.NoError(t, err)

	got, enc, err := decodeText(gbk)
	require.NoError(t, err)
	assert.Equal(t, "中文内容测试", got)
	assert.Equal(t, "gbk", enc)
}

func TestDecodeTextLatin1LastResort(t *testing.T) {
	// 0xFF is not a valid lead byte in UTF-8 or GBK.
	got, enc, err := decodeText([]byte{0xFF, 0xFE, 'a'})
	require.NoError(t, err)
	assert.Equal(t, "latin-1", enc)
	assert.Equal(t, "ÿþa", got)
}

func TestDecodeTextEmpty(t *testing.T) {
	got, enc, err := decodeText(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
	assert.Equal(t, "utf-8", enc)
}

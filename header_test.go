package multipart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanHeaderLineBasic(t *testing.T) {
	buf := []byte("Content-Type: text/plain\r\nrest")
	name, value, next, blank, status := scanHeaderLine(buf, 0)
	require.Equal(t, headerOK, status)
	assert.False(t, blank)
	assert.Equal(t, "content-type", name)
	assert.Equal(t, "text/plain", value)
	assert.Equal(t, "rest", string(buf[next:]))
}

func TestScanHeaderLineTrimsOWS(t *testing.T) {
	buf := []byte("X-Foo: \t  value with space  \t\r\n")
	_, value, _, _, status := scanHeaderLine(buf, 0)
	require.Equal(t, headerOK, status)
	assert.Equal(t, "value with space", value)
}

func TestScanHeaderLineBlank(t *testing.T) {
	buf := []byte("\r\nbody-follows")
	name, value, next, blank, status := scanHeaderLine(buf, 0)
	require.Equal(t, headerOK, status)
	assert.True(t, blank)
	assert.Empty(t, name)
	assert.Empty(t, value)
	assert.Equal(t, "body-follows", string(buf[next:]))
}

func TestScanHeaderLineNeedMore(t *testing.T) {
	buf := []byte("Content-Type: text/plain")
	_, _, _, _, status := scanHeaderLine(buf, 0)
	assert.Equal(t, headerNeedMore, status)
}

func TestScanHeaderLineNeedMoreOnTrailingCR(t *testing.T) {
	buf := []byte("Content-Type: text/plain\r")
	_, _, _, _, status := scanHeaderLine(buf, 0)
	assert.Equal(t, headerNeedMore, status)
}

func TestScanHeaderLineLoneLFMalformed(t *testing.T) {
	buf := []byte("Content-Type: text/plain\nrest")
	_, _, _, _, status := scanHeaderLine(buf, 0)
	assert.Equal(t, headerMalformed, status)
}

func TestScanHeaderLineCRWithoutLFMalformed(t *testing.T) {
	buf := []byte("Content-Type: text/plain\rrest")
	_, _, _, _, status := scanHeaderLine(buf, 0)
	assert.Equal(t, headerMalformed, status)
}

func TestScanHeaderLineMissingColonMalformed(t *testing.T) {
	buf := []byte("not-a-header-line\r\n")
	_, _, _, _, status := scanHeaderLine(buf, 0)
	assert.Equal(t, headerMalformed, status)
}

func TestScanHeaderLineControlByteInNameMalformed(t *testing.T) {
	buf := []byte("na\x00me: v\r\n")
	_, _, _, _, status := scanHeaderLine(buf, 0)
	assert.Equal(t, headerMalformed, status)
}

func TestScanHeaderLineControlByteInValueMalformed(t *testing.T) {
	buf := []byte("X-Foo: v\x01alue\r\n")
	_, _, _, _, status := scanHeaderLine(buf, 0)
	assert.Equal(t, headerMalformed, status)
}

func TestScanHeaderLineSpaceInNameMalformed(t *testing.T) {
	buf := []byte("na me: v\r\n")
	_, _, _, _, status := scanHeaderLine(buf, 0)
	assert.Equal(t, headerMalformed, status)
}

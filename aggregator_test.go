package multipart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorMultipleParts(t *testing.T) {
	input := "\r\n--boundary\r\n" +
		"content-disposition: form-data; name=\"a\"\r\n\r\none\r\n--boundary\r\n" +
		"content-disposition: form-data; name=\"b\"; filename=\"b.bin\"\r\n" +
		"content-type: application/octet-stream\r\n\r\ntwo\r\n--boundary--"

	p, err := NewParser([]byte("boundary"))
	require.NoError(t, err)
	agg := NewAggregator(p)

	require.NoError(t, p.Parse([]byte(input)))

	first, err := agg.NextPart()
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, PartField, first.Kind)
	assert.Equal(t, `"a"`, first.Name)
	assert.Equal(t, []byte("one"), first.Data)

	second, err := agg.NextPart()
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, PartFile, second.Kind)
	assert.Equal(t, `"b"`, second.Name)
	assert.Equal(t, `"b.bin"`, second.Filename)
	assert.Equal(t, "application/octet-stream", second.ContentType)
	assert.Equal(t, []byte("two"), second.Data)

	third, err := agg.NextPart()
	require.NoError(t, err)
	assert.Nil(t, third)
}

func TestAggregatorZeroLengthBodyPart(t *testing.T) {
	input := "\r\n--boundary\r\n" +
		"content-disposition: form-data; name=\"empty\"\r\n\r\n" +
		"\r\n--boundary\r\n" +
		"content-disposition: form-data; name=\"next\"\r\n\r\nx\r\n--boundary--"

	p, err := NewParser([]byte("boundary"))
	require.NoError(t, err)
	agg := NewAggregator(p)

	require.NoError(t, p.Parse([]byte(input)))

	first, err := agg.NextPart()
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, `"empty"`, first.Name)
	assert.Empty(t, first.Data)

	second, err := agg.NextPart()
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, `"next"`, second.Name)
	assert.Equal(t, []byte("x"), second.Data)
}

func TestAggregatorReturnsNilWhilePartIncomplete(t *testing.T) {
	p, err := NewParser([]byte("boundary"))
	require.NoError(t, err)
	agg := NewAggregator(p)

	require.NoError(t, p.Parse([]byte("\r\n--boundary\r\ncontent-disposition: form-data; name=\"f\"\r\n\r\npartial")))

	part, err := agg.NextPart()
	require.NoError(t, err)
	assert.Nil(t, part, "body not yet terminated by a delimiter, so no part is complete")
}

package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentKeyValueFillsWidth(t *testing.T) {
	doc := NewDocument(32)
	doc.KeyValue("Subtotal:", "2000.00")

	lines := strings.Split(strings.TrimRight(doc.PlainText(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Len(t, lines[0], 32)
	assert.True(t, strings.HasPrefix(lines[0], "Subtotal:"))
	assert.True(t, strings.HasSuffix(lines[0], "2000.00"))
}

func TestDocumentItemLineTruncatesLongNames(t *testing.T) {
	doc := NewDocument(32)
	doc.ItemLine(2, "Extremely Long Mountain Bike Name With Extras", "104000.00")

	line := strings.TrimRight(doc.PlainText(), "\n")
	assert.Equal(t, 32, len([]rune(line)))
	assert.True(t, strings.HasPrefix(line, "2x Extremely"))
	assert.True(t, strings.HasSuffix(line, " 104000.00"))
}

func TestDocumentCenterAlignPadsPreview(t *testing.T) {
	doc := NewDocument(10)
	doc.SetAlign(AlignCenter).Text("AB")

	assert.Equal(t, "    AB\n", doc.PlainText())
}

func TestDocumentBytesCarryControlCodes(t *testing.T) {
	doc := NewDocument(32)
	doc.SetBold(true).Text("HI").PartialCut()

	data := doc.Bytes()
	assert.Equal(t, []byte{ESC, '@'}, data[:2])
	assert.Contains(t, string(data), "HI\n")
	assert.Equal(t, []byte{GS, 'V', 0x01}, data[len(data)-3:])
	assert.NotContains(t, doc.PlainText(), "\x1b")
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("none", "", "")
	require.NoError(t, err)
	assert.NoError(t, p.Print(t.Context(), []byte("x")))

	_, err = NewPrinterFromConfig("usb", "", "")
	assert.Error(t, err)

	_, err = NewPrinterFromConfig("network", "", "")
	assert.Error(t, err)

	_, err = NewPrinterFromConfig("bluetooth", "", "")
	assert.Error(t, err)
}

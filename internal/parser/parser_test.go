package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/docqa/internal/parser/parsertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFile(t *testing.T) {
	cases := map[string]Parser{
		"a.pdf":      &PDFParser{FallbackPdftotext: true},
		"A.PDF":      &PDFParser{FallbackPdftotext: true},
		"b.docx":     &DOCXParser{},
		"c.md":       &MarkdownParser{},
		"c.markdown": &MarkdownParser{},
		"d.html":     &HTMLParser{},
		"d.htm":      &HTMLParser{},
		"e.txt":      &TextParser{},
		"f.csv":      &CSVParser{},
	}
	for name, want := range cases {
		got, err := ForFile(name, Options{PDFFallbackPdftotext: true})
		require.NoError(t, err, name)
		assert.IsType(t, want, got, name)
	}

	_, err := ForFile("image.png", Options{})
	assert.Error(t, err)
	_, err = ForFile("noext", Options{})
	assert.Error(t, err)
}

func TestIsSupportedExtension(t *testing.T) {
	assert.True(t, IsSupportedExtension("report.PDF"))
	assert.True(t, IsSupportedExtension("notes.txt"))
	assert.False(t, IsSupportedExtension("archive.zip"))
	assert.False(t, IsSupportedExtension(""))
}

func TestExtraction_PageCount(t *testing.T) {
	assert.Equal(t, 1, (&Extraction{}).PageCount())
	assert.Equal(t, 2, (&Extraction{Pages: []string{"a", "b"}}).PageCount())
	// Pages without text still count toward the source page count.
	assert.Equal(t, 5, (&Extraction{Pages: []string{"a"}, NumPages: 5}).PageCount())
}

func TestPDFParser_RejectsGarbage(t *testing.T) {
	p := &PDFParser{}
	_, err := p.Parse(strings.NewReader("definitely not a pdf"), "fake.pdf")
	assert.Error(t, err)
}

func TestPDFParser_ExtractsTextPerPage(t *testing.T) {
	data := parsertest.MinimalPDF("Contract between A and B", "Page two", "Page three")

	p := &PDFParser{}
	ext, err := p.Parse(bytes.NewReader(data), "contract.pdf")
	require.NoError(t, err)
	assert.Equal(t, "contract", ext.Title)
	assert.Equal(t, 3, ext.PageCount())
	assert.Equal(t, "Contract between A and B\n\nPage two\n\nPage three", ext.Text())
}

func TestPDFParser_TextlessPagesStillCount(t *testing.T) {
	data := parsertest.MinimalPDF("", "")

	p := &PDFParser{}
	ext, err := p.Parse(bytes.NewReader(data), "scan.pdf")
	require.NoError(t, err)
	assert.Empty(t, ext.Pages)
	assert.Equal(t, "", ext.Text())
	assert.Equal(t, 2, ext.PageCount())
}

func TestPDFParser_SkipsEmptyPagesBetweenText(t *testing.T) {
	data := parsertest.MinimalPDF("First (draft)", "", "Last")

	p := &PDFParser{}
	ext, err := p.Parse(bytes.NewReader(data), "mixed.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"First (draft)", "Last"}, ext.Pages)
	assert.Equal(t, 3, ext.PageCount())
}

func TestDOCXParser_RejectsGarbage(t *testing.T) {
	p := &DOCXParser{}
	_, err := p.Parse(strings.NewReader("not a zip archive"), "fake.docx")
	assert.Error(t, err)
}

func TestHTMLParser_SkipsChromeAndSplitsOnHeadings(t *testing.T) {
	input := `<html><head><title>Handbook</title><style>p{}</style></head>
<body>
<nav>Home | About</nav>
<h1>Welcome</h1><p>First paragraph.</p>
<script>var x = 1;</script>
<h2>Details</h2><ul><li>One</li><li>Two</li></ul>
<footer>Copyright</footer>
</body></html>`
	p := &HTMLParser{}
	ext, err := p.Parse(strings.NewReader(input), "page.html")
	require.NoError(t, err)

	assert.Equal(t, "Handbook", ext.Title)
	require.Len(t, ext.Pages, 2)
	assert.Equal(t, "Welcome\n\nFirst paragraph.", ext.Pages[0])
	assert.Equal(t, "Details\n\nOne\n\nTwo", ext.Pages[1])
	assert.NotContains(t, ext.Text(), "Home | About")
	assert.NotContains(t, ext.Text(), "var x")
	assert.NotContains(t, ext.Text(), "Copyright")
}

func TestCSVParser_RowsBecomeLabelledLines(t *testing.T) {
	input := "name,age\nana,31\nbo,27\n"
	p := &CSVParser{}
	ext, err := p.Parse(strings.NewReader(input), "people.csv")
	require.NoError(t, err)

	assert.Equal(t, "people", ext.Title)
	require.Len(t, ext.Pages, 1)
	assert.Equal(t, "name: ana, age: 31\nname: bo, age: 27", ext.Pages[0])
}

func TestCSVParser_PagesEveryTwentyRows(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("n\n")
	for i := 0; i < 45; i++ {
		sb.WriteString("x\n")
	}
	p := &CSVParser{}
	ext, err := p.Parse(strings.NewReader(sb.String()), "rows.csv")
	require.NoError(t, err)
	assert.Len(t, ext.Pages, 3)
}

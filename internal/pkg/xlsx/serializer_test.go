package xlsx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hris-report-go/internal/pkg/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleWorkbook() *workbook.Workbook {
	header := workbook.Style{Bold: true, FontColor: "#FFFFFF", Fill: "#4472C4", Border: true, Align: workbook.AlignCenter}
	body := workbook.Style{Fill: "#D3F3DF", Border: true}

	wb := workbook.New()
	summary := wb.AddSheet("Summary")
	title := summary.AppendRow(workbook.Text("Attendance Report Summary", workbook.Style{Bold: true, FontSize: 16}))
	summary.MergeRow(title, 0, 2)
	summary.AppendRow()
	summary.AppendRow(workbook.Text("Status", header), workbook.Text("Count", header), workbook.Text("Percentage", header))
	summary.AppendRow(workbook.Text("Present", body), workbook.Number(3, body), workbook.Text("100.0%", body))
	summary.AutoFit(10, 50, 2)

	details := wb.AddSheet("Detailed Records")
	details.AppendRow(workbook.Text("2024-03-02", body), workbook.Blank(body), workbook.Text("Weekend", body))
	details.AutoFit(10, 50, 2)

	return wb
}

func openSerialized(t *testing.T, wb *workbook.Workbook) *excelize.File {
	data, err := NewSerializer().Serialize(wb)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestSerializer_SheetsAndValues(t *testing.T) {
	f := openSerialized(t, sampleWorkbook())

	assert.Equal(t, []string{"Summary", "Detailed Records"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Attendance Report Summary", title)

	count, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "3", count)

	note, err := f.GetCellValue("Detailed Records", "C1")
	require.NoError(t, err)
	assert.Equal(t, "Weekend", note)

	blank, err := f.GetCellValue("Detailed Records", "B1")
	require.NoError(t, err)
	assert.Equal(t, "", blank)
}

func TestSerializer_MergesAndWidths(t *testing.T) {
	f := openSerialized(t, sampleWorkbook())

	merges, err := f.GetMergeCells("Summary")
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "A1", merges[0].GetStartAxis())
	assert.Equal(t, "C1", merges[0].GetEndAxis())

	width, err := f.GetColWidth("Summary", "A")
	require.NoError(t, err)
	assert.InDelta(t, 27.0, width, 0.01) // "Attendance Report Summary" + 2

	width, err = f.GetColWidth("Detailed Records", "B")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, width, 0.01)
}

func TestSerializer_StyledCellsShareStyles(t *testing.T) {
	f := openSerialized(t, sampleWorkbook())

	a, err := f.GetCellStyle("Summary", "A4")
	require.NoError(t, err)
	b, err := f.GetCellStyle("Summary", "B4")
	require.NoError(t, err)
	header, err := f.GetCellStyle("Summary", "A3")
	require.NoError(t, err)

	assert.NotZero(t, a)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, header)
}

func TestSerializer_EmptyWorkbook(t *testing.T) {
	f := openSerialized(t, workbook.New())
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}

func TestSerializer_InvalidSheetName(t *testing.T) {
	wb := workbook.New()
	wb.AddSheet("Summary")
	wb.AddSheet(strings.Repeat("x", 40))

	_, err := NewSerializer().Serialize(wb)
	assert.Error(t, err)
}

func TestSerializer_Metadata(t *testing.T) {
	s := NewSerializer()
	assert.Equal(t, "xlsx", s.Extension())
	assert.Equal(t, ContentType, s.ContentType())
}

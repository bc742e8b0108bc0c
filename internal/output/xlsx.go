package output

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/connectsphere/connect-cli/internal/model"
)

var xlsxHeader = []string{
	"Name", "Title", "Company", "Connection Type", "Department", "Seniority",
	"Response Rate", "Outreach Tip", "Primary Email", "Email Confidence",
	"All Patterns", "Profile Link",
}

// WriteXLSX writes the final connection list to an XLSX workbook at path.
func WriteXLSX(path string, conns []model.FinalConnection) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Connections")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().Value = h
	}

	for _, c := range conns {
		row := sheet.AddRow()
		row.AddCell().Value = c.Name
		row.AddCell().Value = c.JobTitle
		row.AddCell().Value = c.Company
		row.AddCell().Value = string(c.ConnectionType)
		row.AddCell().Value = c.Department
		row.AddCell().Value = string(c.Seniority)
		row.AddCell().SetInt(c.ResponseRate)
		row.AddCell().Value = c.OutreachTip
		row.AddCell().Value = c.PrimaryEmail
		row.AddCell().SetInt(c.EmailConfidence)
		row.AddCell().Value = strings.Join(c.AllEmailPatterns, ", ")
		row.AddCell().Value = c.SourceLink
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

package catalog

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ExportRow is one row of the reference export catalog.
type ExportRow struct {
	Category    string `json:"category"`
	HSCode      string `json:"hs_code"`
	Description string `json:"description"`
	Company     string `json:"company,omitempty"`
}

// Export is the reference export catalog. It is loaded once and treated as
// read-only for the duration of every run.
type Export struct {
	Rows []ExportRow
}

// LoadExport reads the export catalog CSV. Expected columns (by header name,
// case-insensitive): Category, HS Code, Product Description, Company.
func LoadExport(path string) (*Export, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.Errorf("catalog: export catalog %s is empty", path)
	}

	idx := HeaderIndex(records[0])
	rows := make([]ExportRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, ExportRow{
			Category:    Field(rec, idx, "category"),
			HSCode:      Field(rec, idx, "hs code"),
			Description: Field(rec, idx, "product description"),
			Company:     Field(rec, idx, "company"),
		})
	}

	zap.L().Info("catalog: loaded export catalog",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return &Export{Rows: rows}, nil
}

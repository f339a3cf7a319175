package catalog

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// RefDescription is one reference document: a product category label and the
// descriptive text the document similarity provider indexes.
type RefDescription struct {
	Product     string `json:"product"`
	Description string `json:"description"`
}

// LoadDescriptions reads the reference document descriptions CSV. Expected
// columns: Product, Description. Rows with an empty description are skipped.
func LoadDescriptions(path string) ([]RefDescription, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.Errorf("catalog: descriptions file %s is empty", path)
	}

	idx := HeaderIndex(records[0])
	var refs []RefDescription
	for _, rec := range records[1:] {
		desc := Field(rec, idx, "description")
		if desc == "" {
			continue
		}
		refs = append(refs, RefDescription{
			Product:     Field(rec, idx, "product"),
			Description: desc,
		})
	}

	zap.L().Info("catalog: loaded reference descriptions",
		zap.String("path", path),
		zap.Int("documents", len(refs)),
	)
	return refs, nil
}

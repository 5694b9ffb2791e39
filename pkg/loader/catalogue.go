package loader

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/limaJavier/advising/pkg/model"
)

// LoadCatalogue reads the module catalogue table. Rows without a module code are ignored.
func LoadCatalogue(path string) (model.Catalogue, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	entries := make([]model.CatalogueEntry, 0, len(rows))
	for i, row := range rows {
		cleaned := make(map[string]any, len(row))
		for key, value := range row {
			if text, ok := value.(string); ok {
				if text = model.CleanCell(text); text != "" {
					cleaned[key] = text
				}
			}
		}
		if cleaned["Module code"] == nil {
			continue
		}

		var entry model.CatalogueEntry
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &entry,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(cleaned); err != nil {
			return nil, fmt.Errorf("catalogue %v row %d: %w", path, i+2, err)
		}
		entries = append(entries, entry)
	}
	return model.NewCatalogue(entries), nil
}

package catalog

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"
)

// MergeReferenceCSV appends extra corpus passages to matching paths from a
// CSV reference file. Expected columns: religion plus any of description,
// practices, core_beliefs, common_curiosities. Rows for unknown paths are
// skipped with a log line rather than failing the whole load.
func (c *Catalog) MergeReferenceCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open reference file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse reference file %s: %w", path, err)
	}
	if len(records) < 2 {
		return fmt.Errorf("reference file %s has no data rows", path)
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	keyCol, ok := col["religion"]
	if !ok {
		return fmt.Errorf("reference file %s is missing the religion column", path)
	}

	merged := 0
	for _, row := range records[1:] {
		if keyCol >= len(row) {
			continue
		}
		pathID := strings.TrimSpace(row[keyCol])
		i, known := c.pathIndex[pathID]
		if !known {
			log.Printf("Skipping reference row for unknown path %q", pathID)
			continue
		}
		passage := referencePassage(row, col)
		if passage == "" {
			continue
		}
		c.Paths[i].Corpus = append(c.Paths[i].Corpus, passage)
		merged++
	}
	log.Printf("Merged %d reference passages from %s", merged, path)
	return nil
}

func referencePassage(row []string, col map[string]int) string {
	var parts []string
	add := func(label, column string) {
		i, ok := col[column]
		if !ok || i >= len(row) {
			return
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			parts = append(parts, label+": "+v)
		}
	}
	add("Description", "description")
	add("Practices", "practices")
	add("Core Beliefs", "core_beliefs")
	add("Common Questions", "common_curiosities")
	return strings.Join(parts, "\n\n")
}

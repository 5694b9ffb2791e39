package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/limaJavier/advising/pkg/model"
)

// Enrollment is the result of loading every enrollment table of a directory.
type Enrollment struct {
	Source model.EnrollmentSource
	Files  []string
	// One error per row rejected by validation
	Invalid []error
}

// LoadEnrollment reads every .csv, .xlsx and .json table in the directory, in file name order.
// A .json file holds an array of rows keyed by column header.
func LoadEnrollment(dir string) (Enrollment, error) {
	files, err := listTables(dir, ".csv", ".xlsx", ".json")
	if err != nil {
		return Enrollment{}, err
	}
	if len(files) == 0 {
		return Enrollment{}, fmt.Errorf("missing student data files in %v", dir)
	}

	enrollment := Enrollment{Files: files}
	dataSets := make([][]model.EnrollmentRecord, 0, len(files))
	for _, file := range files {
		records, errs, err := readRecords(file)
		if err != nil {
			return Enrollment{}, err
		}
		for _, err := range errs {
			enrollment.Invalid = append(enrollment.Invalid, fmt.Errorf("%v: %w", filepath.Base(file), err))
		}
		dataSets = append(dataSets, records)
	}
	enrollment.Source = model.NewEnrollmentSource(dataSets...)
	return enrollment, nil
}

func readRecords(file string) ([]model.EnrollmentRecord, []error, error) {
	if strings.ToLower(filepath.Ext(file)) == ".json" {
		records, errs, err := model.RecordsFromJson(file)
		if err != nil {
			return nil, nil, fmt.Errorf("read json %v: %w", file, err)
		}
		return records, errs, nil
	}

	rows, err := readTable(file)
	if err != nil {
		return nil, nil, err
	}
	records, errs := model.DecodeRecords(rows)
	return records, errs, nil
}

// listTables returns the files of dir with one of the extensions, skipping lock files left by spreadsheet editors.
func listTables(dir string, extensions ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %v: %w", dir, err)
	}

	files := make([]string, 0)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		extension := strings.ToLower(filepath.Ext(name))
		for _, allowed := range extensions {
			if extension == allowed {
				files = append(files, filepath.Join(dir, name))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

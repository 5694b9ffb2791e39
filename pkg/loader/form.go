package loader

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/limaJavier/advising/pkg/model"
)

const (
	formStudentIdCell = "D5"
	formModuleColumn  = 1
	// Module cells start two rows under their header
	formHeaderOffset = 2
	formModuleCells  = 6
	formMaxYears     = 3
)

// ReadChoiceForm reads a filled-in module choice workbook. A missing or non-integer student id leaves StudentId zero.
func ReadChoiceForm(path string) (model.ChoiceForm, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return model.ChoiceForm{}, fmt.Errorf("open form %v: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	form := model.ChoiceForm{Source: filepath.Base(path)}

	rawId, err := f.GetCellValue(sheet, formStudentIdCell, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.ChoiceForm{}, fmt.Errorf("read student id of %v: %w", path, err)
	}
	if studentId, err := strconv.ParseUint(strings.TrimSpace(rawId), 10, 64); err == nil {
		form.StudentId = studentId
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return model.ChoiceForm{}, fmt.Errorf("read form %v: %w", path, err)
	}
	for year := 1; year <= formMaxYears; year++ {
		for _, semester := range []model.Semester{model.SemesterOne, model.SemesterTwo} {
			modules, ok := modulesUnderHeader(rows, model.FormHeader(year, semester))
			if ok {
				form.Selections = append(form.Selections, model.FormSelection{HonoursYear: year, Semester: semester, Modules: modules})
			}
		}
	}
	return form, nil
}

// ListForms returns the choice form workbooks of a directory.
func ListForms(dir string) ([]string, error) {
	forms, err := listTables(dir, ".xlsx", ".xltx")
	if err != nil {
		return nil, err
	}
	if len(forms) == 0 {
		return nil, fmt.Errorf("there are no forms in %v", dir)
	}
	return forms, nil
}

// modulesUnderHeader returns the module codes entered below the last row whose module column contains the header.
func modulesUnderHeader(rows [][]string, header string) ([]string, bool) {
	headerRow := -1
	for i, row := range rows {
		if len(row) > formModuleColumn && strings.Contains(row[formModuleColumn], header) {
			headerRow = i
		}
	}
	if headerRow < 0 {
		return nil, false
	}

	modules := make([]string, 0)
	for i := headerRow + formHeaderOffset; i < headerRow+formHeaderOffset+formModuleCells && i < len(rows); i++ {
		if len(rows[i]) <= formModuleColumn {
			continue
		}
		if module := normaliseModuleCode(rows[i][formModuleColumn]); module != "" {
			modules = append(modules, module)
		}
	}
	return modules, true
}

// normaliseModuleCode turns "4501" into "MT4501" and fixes "Mt" prefixes.
func normaliseModuleCode(cell string) string {
	code := strings.TrimSpace(cell)
	if code == "" {
		return ""
	}
	if _, err := strconv.Atoi(code); err == nil {
		return "MT" + code
	}
	return strings.Replace(code, "Mt", "MT", 1)
}

package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Alpha roster column names.
const (
	ColFullName       = "FULL_NAME"
	ColGrade          = "GRADE"
	ColUnitName       = "ASSIGNED_PAS_CLEARTEXT"
	ColDutySkill      = "DAFSC"
	ColDateOfRank     = "DOR"
	ColArrived        = "DATE_ARRIVED_STATION"
	ColTAFMSD         = "TAFMSD"
	ColReenlistment   = "REENL_ELIG_STATUS"
	ColUnitCode       = "ASSIGNED_PAS"
	ColPrimarySkill   = "CAFSC"
	ColProjected      = "GRADE_PERM_PROJ"
	ColUIFCode        = "UIF_CODE"
	ColUIFDisposition = "UIF_DISPOSITION_DATE"
	ColSkill2         = "2AFSC"
	ColSkill3         = "3AFSC"
	ColSkill4         = "4AFSC"
)

// RequiredColumns must be present in the header row.
var RequiredColumns = []string{
	ColFullName, ColGrade, ColUnitName, ColDutySkill, ColDateOfRank,
	ColArrived, ColTAFMSD, ColReenlistment, ColUnitCode, ColPrimarySkill,
}

// OptionalColumns are read when present.
var OptionalColumns = []string{
	ColProjected, ColUIFCode, ColUIFDisposition, ColSkill2, ColSkill3, ColSkill4,
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// ReadCSV reads an alpha roster export. Column order is free; names are
// matched case-insensitively. Empty cells become empty fields; checking
// that required values are present is the engine's job.
func ReadCSV(r io.Reader) ([]Member, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read roster header: empty file: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read roster header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var members []Member
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster line %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		members = append(members, Member{
			FullName:           get(ColFullName),
			Grade:              get(ColGrade),
			UnitCode:           get(ColUnitCode),
			UnitName:           get(ColUnitName),
			PrimarySkill:       get(ColPrimarySkill),
			SecondarySkills:    [3]string{get(ColSkill2), get(ColSkill3), get(ColSkill4)},
			DutySkill:          get(ColDutySkill),
			DateArrivedStation: get(ColArrived),
			DateOfRank:         get(ColDateOfRank),
			TAFMSD:             get(ColTAFMSD),
			ReenlistmentCode:   get(ColReenlistment),
			UIFCode:            get(ColUIFCode),
			UIFDispositionDate: get(ColUIFDisposition),
			ProjectedGrade:     get(ColProjected),
		})
	}
	return members, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

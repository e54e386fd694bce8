package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"casedesk/internal/domain"
)

// BOM is the UTF-8 byte order mark Excel needs to read Cyrillic CSV correctly.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: format must be csv or xlsx", domain.ErrInvalidInput)
	}
}

// ContentType returns the response media type.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// column is one export column and how to read it from a client.
type column struct {
	title string
	value func(c *domain.Client) string
}

func fromData(key string) func(c *domain.Client) string {
	return func(c *domain.Client) string { return c.ExtractedData.Text(key) }
}

func fromProfile(get func(p *domain.Profile) *string) func(c *domain.Client) string {
	return func(c *domain.Client) string { return domain.Deref(get(&c.Profile)) }
}

var columns = []column{
	{"ID", func(c *domain.Client) string { return c.ID.String() }},
	{"ФИО", func(c *domain.Client) string { return c.FullName }},
	{"Статус", func(c *domain.Client) string { return string(c.Status) }},
	{"Фамилия", fromData(domain.FieldSurname)},
	{"Имя", fromData(domain.FieldName)},
	{"Отчество", fromData(domain.FieldPatronymic)},
	{"Дата рождения", fromData(domain.FieldBirthDate)},
	{"Серия паспорта", fromData(domain.FieldSeries)},
	{"Номер паспорта", fromData(domain.FieldNumber)},
	{"Дата выдачи", fromData(domain.FieldIssueDate)},
	{"Кем выдан", fromData(domain.FieldIssuer)},
	{"Код подразделения", fromData(domain.FieldCode)},
	{"Место регистрации", fromProfile(func(p *domain.Profile) *string { return p.RegistrationPlace })},
	{"СНИЛС", fromData(domain.FieldSNILSNumber)},
	{"Серия диплома", fromProfile(func(p *domain.Profile) *string { return p.DiplomaSeries })},
	{"Номер диплома", fromProfile(func(p *domain.Profile) *string { return p.DiplomaNumber })},
	{"Рег. номер диплома", fromProfile(func(p *domain.Profile) *string { return p.DiplomaRegNumber })},
	{"ВУЗ", fromProfile(func(p *domain.Profile) *string { return p.DiplomaUniversityName })},
	{"Город ВУЗа", fromProfile(func(p *domain.Profile) *string { return p.DiplomaUniversityLocation })},
	{"Специальность", fromProfile(func(p *domain.Profile) *string { return p.DiplomaSpecialty })},
	{"Специализация", fromProfile(func(p *domain.Profile) *string { return p.DiplomaSpecialization })},
	{"Квалификация", fromProfile(func(p *domain.Profile) *string { return p.DiplomaQualification })},
	{"Дата квалификации", fromProfile(func(p *domain.Profile) *string { return p.DiplomaQualificationDate })},
	{"Формат диплома", fromProfile(func(p *domain.Profile) *string { return p.DiplomaFormat })},
	{"Рег. номер удостоверения", fromProfile(func(p *domain.Profile) *string { return p.CertRegNumber })},
	{"Дата выдачи удостоверения", fromProfile(func(p *domain.Profile) *string { return p.CertIssueDate })},
	{"Действует до", fromProfile(func(p *domain.Profile) *string { return p.CertExpiryDate })},
	{"Учебный центр", fromProfile(func(p *domain.Profile) *string { return p.CertCenterName })},
	{"Город учебного центра", fromProfile(func(p *domain.Profile) *string { return p.CertCenterLocation })},
	{"Создан", func(c *domain.Client) string { return c.CreatedAt.Format(time.RFC3339) }},
}

// Header returns the column titles.
func Header() []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = col.title
	}
	return out
}

// Row converts one client to export cells.
func Row(c *domain.Client) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = col.value(c)
	}
	return out
}

// Write encodes clients in the given format.
func Write(w io.Writer, format Format, clients []domain.Client) error {
	if format == FormatXLSX {
		return WriteXLSX(w, clients)
	}
	return WriteCSV(w, clients)
}

// WriteCSV writes a BOM, the header and one row per client.
func WriteCSV(w io.Writer, clients []domain.Client) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for i := range clients {
		if err := cw.Write(Row(&clients[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const sheetName = "Клиенты"

// WriteXLSX writes a single-sheet workbook.
func WriteXLSX(w io.Writer, clients []domain.Client) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("opening sheet writer: %w", err)
	}
	if err := sw.SetRow("A1", toCells(Header())); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range clients {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(Row(&clients[i]))); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}
	_, err = f.WriteTo(w)
	return err
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces anything outside [a-zA-Z0-9_-] with _, collapses
// runs of underscores and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {prefix}_{YYYY-MM-DD}.{format} for Content-Disposition.
func BuildFilename(prefix string, format Format, now time.Time) string {
	name := SanitizeFilename(prefix)
	if name == "" {
		name = "export"
	}
	return fmt.Sprintf("%s_%s.%s", name, now.Format("2006-01-02"), format)
}

// Package ingest читает CSV выгрузки ASV в записи для хранилища.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"asv-water-quality/internal/models"
)

// ErrNoHeader в файле нет строки заголовка
var ErrNoHeader = errors.New("csv has no header row")

// Table прочитанная выгрузка: заголовок в исходном порядке и записи
type Table struct {
	Header  []string
	Records []models.Record
}

// ReadCSVFile открывает и читает файл выгрузки
func ReadCSVFile(filename string) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV читает выгрузку из io.Reader.
// Пустые ячейки, NA, NaN, Inf и null становятся nil, числа float64, остальное строками.
// Ключи заголовка не обрезаются: в выгрузке они бывают с хвостовыми пробелами.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	table := &Table{Header: header}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		if isBlank(row) {
			continue
		}

		rec := make(models.Record, len(header))
		for i, key := range header {
			if i < len(row) {
				rec[key] = parseCell(row[i])
			} else {
				rec[key] = nil
			}
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

func parseCell(cell string) interface{} {
	cell = strings.TrimSpace(cell)
	switch cell {
	case "", "NA", "NaN", "nan", "null":
		return nil
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		// inf, NAN, infinity: в хранилище не пишем
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}
	return cell
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Columns возвращает из want те колонки, что есть в заголовке
func (t *Table) Columns(want []string) []string {
	present := make(map[string]bool, len(t.Header))
	for _, h := range t.Header {
		present[h] = true
	}

	var out []string
	for _, w := range want {
		if present[w] {
			out = append(out, w)
		}
	}
	return out
}

// Package orders lee los archivos CSV de pedidos y entrega filas ya
// validadas y recortadas al resto del sistema.
package orders

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/models"
)

// templateFile es el CSV de ejemplo que se ignora siempre.
const templateFile = "orders_template.csv"

// ListBatchFiles devuelve los CSV del directorio de pedidos en orden
// alfabético, salteando el template.
func ListBatchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read orders dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if !strings.HasSuffix(name, ".csv") || name == templateFile {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ReadBatchFile parsea un CSV de pedidos. Las filas sin order_number o
// shop_number son inválidas y se saltean con un warning; el resto de las
// columnas es opcional.
func ReadBatchFile(path string) ([]models.OrderRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open batch file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // filas cortas son tolerables, las valida la fila

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse batch file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Mapear el header a índices para tolerar columnas en cualquier orden
	colIndex := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	field := func(row []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []models.OrderRecord
	for lineNo, row := range rows[1:] {
		record := models.OrderRecord{
			OrderNumber: field(row, "order_number"),
			ShopNumber:  field(row, "shop_number"),
			Identifier:  field(row, "identifier"),
			SecureID:    strings.ToUpper(field(row, "secure_id")),
			CeweOrderID: field(row, "cewe_order_id"),
			OutputPath:  field(row, "output_path"),
		}

		if !record.Valid() {
			zap.L().Warn("skipping invalid batch row",
				zap.String("file", path),
				zap.Int("line", lineNo+2),
			)
			continue
		}

		records = append(records, record)
	}

	return records, nil
}

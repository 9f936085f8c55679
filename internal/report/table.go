// Package report imprime el resumen de la corrida como tablas por archivo
// de batch, con columnas opcionales según lo que traiga cada archivo.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/models"
)

// RenderSummary imprime una tabla por archivo, en el orden dado por files.
func RenderSummary(w io.Writer, files []string, resultsByFile map[string][]models.ResultRecord) {
	fmt.Fprintln(w, "\n================= ORDER STATUS SUMMARY =================")
	for _, file := range files {
		fmt.Fprintf(w, "\n=== %s ===\n", file)
		RenderTable(w, resultsByFile[file])
	}
}

// RenderTable imprime los resultados de un archivo. Las columnas Secure ID,
// CEWE Order ID, Output Path y Download solo aparecen cuando alguna fila
// las trae.
func RenderTable(w io.Writer, results []models.ResultRecord) {
	hasSecureIDs := false
	hasCeweIDs := false
	hasOutputPaths := false
	hasDownloads := false
	for _, r := range results {
		hasSecureIDs = hasSecureIDs || r.Order.SecureID != ""
		hasCeweIDs = hasCeweIDs || r.Order.CeweOrderID != ""
		hasOutputPaths = hasOutputPaths || r.Order.OutputPath != ""
		hasDownloads = hasDownloads || r.Download.State != models.DownloadNotAttempted
	}

	header := []string{"Order Number", "Shop Number", "Identifier"}
	if hasSecureIDs {
		header = append(header, "Secure ID")
	}
	if hasCeweIDs {
		header = append(header, "CEWE Order ID")
	}
	if hasOutputPaths {
		header = append(header, "Output Path")
	}
	header = append(header, "Status")
	if hasDownloads {
		header = append(header, "Download")
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)

	for _, r := range results {
		row := []string{r.Order.OrderNumber, r.Order.ShopNumber, r.Order.Identifier}
		if hasSecureIDs {
			row = append(row, r.Order.SecureID)
		}
		if hasCeweIDs {
			row = append(row, r.Order.CeweOrderID)
		}
		if hasOutputPaths {
			row = append(row, r.Order.OutputPath)
		}
		row = append(row, r.Status.Display)
		if hasDownloads {
			row = append(row, r.Download.Label())
		}
		table.Append(row)
	}

	table.Render()
}

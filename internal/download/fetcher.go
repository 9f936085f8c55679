// Package download trae el archivo ZIP de fotos terminado desde la API de
// CEWE y lo desempaqueta en la carpeta destino del pedido.
package download

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/config"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/models"
)

// Fetcher descarga y extrae archivos de fotos. Cliente HTTP propio con
// timeout largo: los ZIP pueden pesar cientos de MB.
type Fetcher struct {
	http          *http.Client
	base          string
	accessKey     string
	clientVersion string
	progress      io.Writer
}

func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		http:          &http.Client{Timeout: cfg.DownloadTimeout},
		base:          cfg.DownloadBaseURL,
		accessKey:     cfg.AccessKey,
		clientVersion: cfg.ClientVersion,
		progress:      os.Stdout,
	}
}

// SetProgressWriter redirige el indicador de progreso (los tests lo mandan
// a un buffer).
func (f *Fetcher) SetProgressWriter(w io.Writer) {
	f.progress = w
}

// FetchAndUnpack descarga el archivo del pedido a outputDir, lo extrae ahí
// mismo y borra el ZIP. Si la carpeta ya tiene contenido no toca la red:
// ese chequeo por presencia es el único mecanismo de reanudación que hay.
// Nunca devuelve error; toda falla queda capturada en el outcome.
func (f *Fetcher) FetchAndUnpack(ctx context.Context, orderID, secureID, outputDir string) models.DownloadOutcome {
	if dirHasEntries(outputDir) {
		zap.L().Info("download skipped, folder already has content",
			zap.String("order_id", orderID),
			zap.String("output_dir", outputDir),
		)
		return models.DownloadOutcome{State: models.DownloadAlreadyPresent}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		zap.L().Error("could not create output folder",
			zap.String("output_dir", outputDir),
			zap.Error(err),
		)
		return models.DownloadOutcome{State: models.DownloadFailed, Reason: "Folder creation failed"}
	}

	archivePath := filepath.Join(outputDir, fmt.Sprintf("photos_%s.zip", orderID))
	if err := f.downloadArchive(ctx, orderID, secureID, archivePath); err != nil {
		zap.L().Error("download failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return models.DownloadOutcome{State: models.DownloadFailed, Reason: err.Error()}
	}

	// La extracción nunca revierte una descarga completa: un payload que no
	// es ZIP se queda tal cual en disco y solo se avisa por log.
	if err := extractArchive(archivePath, outputDir); err != nil {
		if errors.Is(err, zip.ErrFormat) {
			zap.L().Warn("file is not a valid ZIP archive, keeping as-is",
				zap.String("archive", archivePath),
			)
		} else {
			zap.L().Warn("could not extract ZIP file",
				zap.String("archive", archivePath),
				zap.Error(err),
			)
		}
		return models.DownloadOutcome{State: models.DownloadSucceeded}
	}

	if err := os.Remove(archivePath); err != nil {
		zap.L().Warn("could not remove ZIP after extraction",
			zap.String("archive", archivePath),
			zap.Error(err),
		)
	}

	return models.DownloadOutcome{State: models.DownloadSucceeded}
}

// dirHasEntries reporta si el directorio existe y tiene al menos una
// entrada.
func dirHasEntries(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

func (f *Fetcher) downloadArchive(ctx context.Context, orderID, secureID, archivePath string) error {
	params := url.Values{}
	params.Set("aak", f.accessKey)
	params.Set("clientVersion", f.clientVersion)
	downloadURL := fmt.Sprintf("%s/%s/%s/download?%s", f.base, orderID, secureID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", "https://www.cewe-myphotos.com/")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	// Incluir el status en el mensaje: un 403/404 acá suele ser la access
	// key expirada y el operador lo tiene que poder reconocer.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("download error: status %d", resp.StatusCode)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("could not create archive file: %w", err)
	}
	defer out.Close()

	totalSize := resp.ContentLength
	if totalSize > 0 {
		fmt.Fprintf(f.progress, "  -> File size: %.2f MB\n", float64(totalSize)/(1024*1024))
	}

	var downloaded int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("could not write to archive file: %w", writeErr)
			}
			downloaded += int64(n)
			f.reportProgress(downloaded, totalSize)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("download interrupted: %w", readErr)
		}
	}
	fmt.Fprintln(f.progress)

	return nil
}

func (f *Fetcher) reportProgress(downloaded, total int64) {
	// Sin content-length el porcentaje queda indeterminado y se reporta 0.
	percent := 0.0
	if total > 0 {
		percent = float64(downloaded) / float64(total) * 100
	}
	fmt.Fprintf(f.progress, "\r  Downloaded: %.2f MB / %.2f MB (%.1f%%)",
		float64(downloaded)/(1024*1024), float64(total)/(1024*1024), percent)
}

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36"

// extractArchive extrae el ZIP dentro de destDir, rechazando entradas que
// escapen del destino.
func extractArchive(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		target := filepath.Join(destDir, file.Name)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in archive: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(file, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, target string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

package service

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/models"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/pacing"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/status"
)

// StatusFetcher consulta el estado normalizado de un pedido.
type StatusFetcher interface {
	FetchStatus(ctx context.Context, orderNumber, shopNumber string) models.StatusResult
}

// ArchiveFetcher descarga y desempaqueta el archivo de fotos de un pedido.
type ArchiveFetcher interface {
	FetchAndUnpack(ctx context.Context, orderID, secureID, outputDir string) models.DownloadOutcome
}

// OrderService recorre el batch de pedidos: consulta estado, decide si
// corresponde descargar y acumula un ResultRecord por pedido. Procesa de a
// un pedido por vez, en el orden de entrada.
type OrderService struct {
	client       StatusFetcher
	fetcher      ArchiveFetcher
	pacer        pacing.Pacer
	downloadsDir string
}

func NewOrderService(client StatusFetcher, fetcher ArchiveFetcher, pacer pacing.Pacer, downloadsDir string) *OrderService {
	return &OrderService{
		client:       client,
		fetcher:      fetcher,
		pacer:        pacer,
		downloadsDir: downloadsDir,
	}
}

// ---------------------------------------------------------
// MÉTODO PRINCIPAL
// ---------------------------------------------------------

// ProcessBatch procesa la secuencia de pedidos. Ninguna falla por pedido
// corta el batch: todo error queda capturado en el StatusResult o el
// DownloadOutcome del registro correspondiente. Si el context expira se
// devuelve lo acumulado hasta ese momento.
func (s *OrderService) ProcessBatch(ctx context.Context, orders []models.OrderRecord, downloadEnabled bool) []models.ResultRecord {
	results := make([]models.ResultRecord, 0, len(orders))

	for i := range orders {
		// Verificar si el context expiró antes de procesar cada pedido
		select {
		case <-ctx.Done():
			zap.L().Warn("batch cancelled, returning partial results",
				zap.Int("orders_processed", len(results)),
				zap.Int("orders_remaining", len(orders)-i),
			)
			return results
		default:
		}

		order := orders[i]
		record := models.ResultRecord{
			Order:    order,
			Download: models.DownloadOutcome{State: models.DownloadNotAttempted},
		}

		// 1) Consultar y clasificar estado
		record.Status = s.client.FetchStatus(ctx, order.OrderNumber, order.ShopNumber)

		// 2) Decidir descarga: habilitada, con secure id y listo para retirar
		shouldDownload := downloadEnabled &&
			order.SecureID != "" &&
			status.ReadyForPickup(record.Status.RawCode)

		if shouldDownload {
			outputDir := s.resolveOutputDir(order)
			downloadID := resolveDownloadID(order)

			zap.L().Info("downloading photos",
				zap.String("identifier", order.Identifier),
				zap.String("download_order_id", downloadID),
				zap.String("output_dir", outputDir),
			)

			record.Download = s.fetcher.FetchAndUnpack(ctx, downloadID, order.SecureID, outputDir)
		}

		results = append(results, record)

		// 3) Pausa fija entre pedidos, pase lo que pase con este pedido
		if err := s.pacer.Pause(ctx); err != nil {
			zap.L().Warn("pacing interrupted", zap.Error(err))
			return results
		}
	}

	return results
}

// resolveOutputDir elige el destino de descarga por prioridad: columna
// output_path explícita, carpeta nombrada por el identifier (espacios a
// guiones bajos) bajo la raíz de descargas, o la raíz de descargas.
func (s *OrderService) resolveOutputDir(order models.OrderRecord) string {
	if order.OutputPath != "" {
		return order.OutputPath
	}
	if order.Identifier != "" {
		safeIdent := strings.ReplaceAll(order.Identifier, " ", "_")
		return filepath.Join(s.downloadsDir, safeIdent)
	}
	return s.downloadsDir
}

// resolveDownloadID elige el id que va en la URL de descarga: el override
// de CEWE si está, si no el número del pedido, componiendo con el shop
// cuando al elegido le falta la forma compuesta con guión.
func resolveDownloadID(order models.OrderRecord) string {
	downloadID := order.OrderNumber
	if order.CeweOrderID != "" {
		downloadID = order.CeweOrderID
	}
	if !strings.Contains(downloadID, "-") {
		downloadID = order.ShopNumber + "-" + downloadID
	}
	return downloadID
}

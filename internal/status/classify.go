// Package status clasifica los códigos de estado que devuelve la API de
// Fotoparadies y decide si un pedido está listo para recoger.
package status

import (
	"strings"

	"go.uber.org/zap"
)

// Glifos usados fuera de la tabla de mapeo.
const (
	WarnGlyph    = "⚠️"
	UnknownGlyph = "❓"
)

// Tabla ordenada de substring → glifo. El primer match gana, así que el
// orden resuelve los solapamientos de forma determinista. La comparación
// es por substring, case-insensitive, nunca por igualdad exacta.
var glyphTable = []struct {
	key   string
	glyph string
}{
	{"processing", "🏭"},
	{"shipped", "📦"},
	{"delivered", "✅"},
	{"completed", "✅"},
	{"cancelled", "❌"},
	{"error", "⚠️"},
}

// Decorate antepone el glifo correspondiente al texto de estado según el
// código crudo. Un código sin mapeo se loguea para diagnóstico y cae al
// glifo de desconocido.
func Decorate(statusCode, statusText string) string {
	lower := strings.ToLower(statusCode)
	for _, entry := range glyphTable {
		if strings.Contains(lower, entry.key) {
			return entry.glyph + " " + statusText
		}
	}

	zap.L().Warn("unmapped status code", zap.String("status_code", statusCode))
	return UnknownGlyph + " " + statusText
}

// ReadyForPickup decide si el pedido habilita la descarga. Compara el
// código crudo normalizado contra DELIVERED por igualdad exacta; nunca se
// deriva del texto decorado.
func ReadyForPickup(statusCode string) bool {
	return strings.ToUpper(statusCode) == "DELIVERED"
}

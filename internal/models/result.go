package models

// StatusResult es el estado normalizado de un pedido. Se crea una vez por
// pedido por corrida y no se muta después.
type StatusResult struct {
	RawCode string // código crudo de la API (ej. "DELIVERED"); vacío si la consulta falló
	RawText string // texto crudo de la API
	Display string // texto decorado con glifo, listo para la tabla
}

// DownloadState clasifica el resultado de la descarga de un pedido.
type DownloadState string

const (
	DownloadNotAttempted   DownloadState = "not_attempted"
	DownloadAlreadyPresent DownloadState = "already_present"
	DownloadSucceeded      DownloadState = "succeeded"
	DownloadFailed         DownloadState = "failed"
)

// DownloadOutcome acompaña cada ResultRecord. Reason solo aplica a Failed.
type DownloadOutcome struct {
	State  DownloadState
	Reason string
}

// Label devuelve el texto que muestra la columna "Download" de la tabla.
func (d DownloadOutcome) Label() string {
	switch d.State {
	case DownloadAlreadyPresent:
		return "✅ Already downloaded"
	case DownloadSucceeded:
		return "✅ Downloaded"
	case DownloadFailed:
		return "❌ " + d.Reason
	default:
		return ""
	}
}

// ResultRecord agrega los campos del pedido con su estado y el resultado de
// la descarga; es la unidad que consume la capa de presentación.
type ResultRecord struct {
	Order    OrderRecord
	Status   StatusResult
	Download DownloadOutcome
}

// Package pacing implementa la pausa fija entre pedidos que protege al
// endpoint de estado. Se inyecta como dependencia para poder usar un fake
// determinista en los tests.
package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer pausa entre pedido y pedido. Se invoca después de cada pedido sin
// importar el resultado; no es backpressure, solo cortesía con el upstream.
type Pacer interface {
	Pause(ctx context.Context) error
}

type limiterPacer struct {
	limiter *rate.Limiter
}

// NewLimiterPacer crea un pacer que espacia cada pausa por delay.
func NewLimiterPacer(delay time.Duration) Pacer {
	l := rate.NewLimiter(rate.Every(delay), 1)
	// Consumir el token inicial para que la primera pausa ya espere delay
	// completo, igual que un sleep fijo al final de cada pedido.
	l.Allow()
	return &limiterPacer{limiter: l}
}

func (p *limiterPacer) Pause(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

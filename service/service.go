// Package service define o contrato comum de ciclo de vida dos serviços da aplicação.
package service

import (
	"context"
	"sync"
)

// Service contrato de ciclo de vida: cada serviço é iniciado com um contexto de
// encerramento e registra sua finalização no WaitGroup recebido.
type Service interface {
	// Run inicia o serviço. O serviço deve observar serviceStopCtx e, ao ser
	// cancelado, liberar seus recursos e chamar serviceStopWaiter.Done().
	// Um erro retornado indica falha na inicialização (o serviço não está rodando).
	Run(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) error
}

package forecasting

import (
	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

// IsModelValidFor decide se um artefato persistido pode ser reaproveitado
// para a janela de dados atual: o modelo é válido somente se já viu o último
// ponto da janela (last_sales_date maior ou igual, comparando ano e depois
// mês). Qualquer dado novo que o modelo não viu o torna obsoleto. Chamadores
// podem forçar o retreinamento, ignorando esta verificação.
func IsModelValidFor(metadata *domain.ModelMetadata, window []domain.SalesPoint) bool {
	if metadata == nil || len(window) == 0 {
		return false
	}

	last := window[len(window)-1]
	return metadata.LastSalesDate.AtOrAfter(domain.SalesDate{
		Year:  last.Year,
		Month: last.Month,
	})
}

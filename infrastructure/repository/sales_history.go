package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-forecast-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

const salesTable = "sales s"

// SalesHistoryRepository fornece o histórico mensal de vendas consolidadas.
// Meses sem vendas concluídas simplesmente não aparecem no resultado,
// não são preenchidos com zero.
type SalesHistoryRepository interface {
	GetMonthlySalesTotals() ([]domain.SalesPoint, error)
}

type salesHistoryRepository struct {
	conn *postgres.Connection
}

func NewSalesHistoryRepository(conn *postgres.Connection) SalesHistoryRepository {
	return &salesHistoryRepository{
		conn: conn,
	}
}

// GetMonthlySalesTotals retorna os totais de vendas agregados por mês,
// em ordem cronológica estrita (ano, mês)
func (r *salesHistoryRepository) GetMonthlySalesTotals() ([]domain.SalesPoint, error) {
	query, args, err := squirrel.
		Select(
			"EXTRACT(YEAR FROM s.date)::int AS year",
			"EXTRACT(MONTH FROM s.date)::int AS month",
			"SUM(s.actualsales) AS total_sales",
		).
		From(salesTable).
		GroupBy("year", "month").
		OrderBy("year", "month").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	points := make([]domain.SalesPoint, 0)
	for rows.Next() {
		var point domain.SalesPoint
		if err := rows.Scan(&point.Year, &point.Month, &point.TotalSales); err != nil {
			return nil, fmt.Errorf("erro ao escanear total mensal de vendas: %w", err)
		}
		points = append(points, point)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return points, nil
}
